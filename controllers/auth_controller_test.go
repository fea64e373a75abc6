package controllers_test

import (
	"net/http"
	"testing"

	"github.com/relatoria/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerPayload() map[string]string {
	return map[string]string{
		"username": "mariana",
		"email":    "mariana@example.com",
		"password": "senha-segura",
	}
}

func TestRegisterCreatesAccount(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, registerPayload()), ContentType: "application/json",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeJSON(t, rec)
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["refresh_token"])
	assert.Equal(t, "/", resp["redirect"])

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "mariana", user["username"])
	assert.Equal(t, false, user["is_staff"], "self-registration must never grant staff")

	var stored models.User
	require.NoError(t, env.DB.Where("username = ?", "mariana").First(&stored).Error)
	require.NotNil(t, stored.Password)
	assert.NotEqual(t, "senha-segura", *stored.Password)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, registerPayload()), ContentType: "application/json",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	dupe := registerPayload()
	dupe["email"] = "outra@example.com"
	rec = env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, dupe), ContentType: "application/json",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	dupe = registerPayload()
	dupe["username"] = "outra"
	rec = env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, dupe), ContentType: "application/json",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsBadUsernames(t *testing.T) {
	env := setupTest(t)

	for _, username := range []string{"ab", "1maria", "admin", "maria nina"} {
		payload := registerPayload()
		payload["username"] = username

		rec := env.do(t, request{
			Method: "POST", Path: "/register",
			Body: jsonBody(t, payload), ContentType: "application/json",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "username %q", username)
	}
}

func TestLoginAndRefreshRotation(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, registerPayload()), ContentType: "application/json",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, request{
		Method: "POST", Path: "/login",
		Body:        jsonBody(t, map[string]string{"email": "mariana@example.com", "password": "senha-segura"}),
		ContentType: "application/json",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refresh := decodeJSON(t, rec)["refresh_token"].(string)

	rec = env.do(t, request{
		Method: "POST", Path: "/refresh-token",
		Body:        jsonBody(t, map[string]string{"refresh_token": refresh}),
		ContentType: "application/json",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := decodeJSON(t, rec)["refresh_token"].(string)
	assert.NotEqual(t, refresh, rotated)

	// The old token is dead after rotation.
	rec = env.do(t, request{
		Method: "POST", Path: "/refresh-token",
		Body:        jsonBody(t, map[string]string{"refresh_token": refresh}),
		ContentType: "application/json",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, registerPayload()), ContentType: "application/json",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, request{
		Method: "POST", Path: "/login",
		Body:        jsonBody(t, map[string]string{"email": "mariana@example.com", "password": "errada"}),
		ContentType: "application/json",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, request{
		Method: "POST", Path: "/login",
		Body:        jsonBody(t, map[string]string{"email": "ninguem@example.com", "password": "senha-segura"}),
		ContentType: "application/json",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, request{
		Method: "POST", Path: "/register",
		Body: jsonBody(t, registerPayload()), ContentType: "application/json",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	refresh := decodeJSON(t, rec)["refresh_token"].(string)

	rec = env.do(t, request{
		Method: "POST", Path: "/logout",
		Body:        jsonBody(t, map[string]string{"refresh_token": refresh}),
		ContentType: "application/json",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, env.countRows(t, &models.RefreshToken{}))

	rec = env.do(t, request{
		Method: "POST", Path: "/refresh-token",
		Body:        jsonBody(t, map[string]string{"refresh_token": refresh}),
		ContentType: "application/json",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, request{
		Method: "POST", Path: "/auth/google",
		Body:        jsonBody(t, map[string]string{"access_token": "whatever"}),
		ContentType: "application/json",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
