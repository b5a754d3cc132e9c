package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustNewValidator_Phone(t *testing.T) {
	v := mustNewValidator()

	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{name: "digits", phone: "9876543210"},
		{name: "international prefix", phone: "+919800000000"},
		{name: "letters", phone: "98765abc10", wantErr: true},
		{name: "spaces", phone: "98765 43210", wantErr: true},
		{name: "too short", phone: "12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(contactRequest{Name: "Asha Patel", Email: "asha@example.com", Phone: tt.phone})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
