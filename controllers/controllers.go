package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Per-call timeouts for Mongo operations: short for single-document
// work, longer for listings.
const (
	dbTimeout     = 5 * time.Second
	dbListTimeout = 10 * time.Second
)

// validationErrors translates binding failures into the field-level
// error array the API exposes, using per-route message text.
func validationErrors(err error, messages map[string]string) []gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []gin.H{{"msg": "Invalid request body"}}
	}

	out := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		out = append(out, gin.H{"msg": msg, "param": fe.Field()})
	}
	return out
}

// parseDateTime accepts RFC3339 plus the date formats the web forms
// submit.
func parseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	layouts := []string{
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date format, use RFC3339 or YYYY-MM-DD")
}
