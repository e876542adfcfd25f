package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func respondAndDecode(t *testing.T, err error) (int, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/register", nil)

	respondAccountError(c, err)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad error payload %q: %v", w.Body.String(), err)
	}
	return w.Code, payload.Error.Code, payload.Error.Message
}

func TestRespondAccountErrorUserCreationFailed(t *testing.T) {
	status, code, message := respondAndDecode(t, &AccountError{
		Kind:   ErrKindUserCreationFailed,
		Detail: "value too long for type character varying(120)",
	})
	if status != http.StatusBadRequest || code != "USER_CREATION_FAILED" {
		t.Fatalf("expected 400 USER_CREATION_FAILED, got %d %s", status, code)
	}
	if message != "value too long for type character varying(120)" {
		t.Fatalf("payload must carry the store detail, got %q", message)
	}
}

func TestRespondAccountErrorMissingParameterMessage(t *testing.T) {
	status, code, message := respondAndDecode(t, missingParameter("email"))
	if status != http.StatusBadRequest || code != "MISSING_PARAMETER" {
		t.Fatalf("expected 400 MISSING_PARAMETER, got %d %s", status, code)
	}
	if message != "The email parameter is required." {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestRespondAccountErrorStoreFaultIsInternal(t *testing.T) {
	status, code, _ := respondAndDecode(t, errors.New("connection refused"))
	if status != http.StatusInternalServerError || code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("store fault must map to 500 INTERNAL_SERVER_ERROR, got %d %s", status, code)
	}
}
