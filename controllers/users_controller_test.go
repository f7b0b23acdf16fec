package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventease/eventease-api/models"
)

func TestBuildUserUpdateMergesFields(t *testing.T) {
	now := time.Now()

	update, err := buildUserUpdate(map[string]interface{}{
		"name":  "New Name",
		"email": "new@x.com",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "New Name", update["name"])
	assert.Equal(t, "new@x.com", update["email"])
	assert.Equal(t, now, update["updatedAt"])
}

func TestBuildUserUpdateDropsImmutableFields(t *testing.T) {
	update, err := buildUserUpdate(map[string]interface{}{
		"_id":         "abc",
		"createdAt":   "2020-01-01",
		"savedEvents": []string{"x"},
		"name":        "Kept",
	}, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, update, "_id")
	assert.NotContains(t, update, "createdAt")
	assert.NotContains(t, update, "savedEvents")
	assert.Equal(t, "Kept", update["name"])
}

func TestBuildUserUpdateValidatesRole(t *testing.T) {
	_, err := buildUserUpdate(map[string]interface{}{"role": "superuser"}, time.Now())
	assert.Error(t, err)

	update, err := buildUserUpdate(map[string]interface{}{"role": "Admin"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, update["role"])
}

func TestBuildUserUpdateValidatesStatus(t *testing.T) {
	_, err := buildUserUpdate(map[string]interface{}{"status": "gone"}, time.Now())
	assert.Error(t, err)

	update, err := buildUserUpdate(map[string]interface{}{"status": "suspended"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, update["status"])
}

func TestBuildUserUpdateHashesPassword(t *testing.T) {
	_, err := buildUserUpdate(map[string]interface{}{"password": "short"}, time.Now())
	assert.Error(t, err)

	update, err := buildUserUpdate(map[string]interface{}{"password": "longenough"}, time.Now())
	require.NoError(t, err)

	hash, ok := update["password"].(string)
	require.True(t, ok)
	assert.NotEqual(t, "longenough", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("longenough")))
}
