package utils

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

type sampleRequest struct {
	ID     string `json:"id_curso" validate:"required,len=6,alphanum"`
	Nombre string `json:"nombre" validate:"required,min=3,max=100"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(&sampleRequest{ID: "ABC", Nombre: "Calculo"})
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fe.Field != "id_curso" || fe.Rule != "len" {
		t.Fatalf("unexpected field error: %+v", fe)
	}
	if !strings.Contains(fe.Error(), "exactly 6") {
		t.Fatalf("unexpected message: %s", fe.Error())
	}

	if err := Validate(&sampleRequest{ID: "ABC123", Nombre: "Calculo"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"id_curso":"ABC123","extra":1}`))
	var req sampleRequest
	if err := ReadJSON(r, &req); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
