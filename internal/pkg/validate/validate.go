package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Custom registrations happen in
// init(), before the first call to Struct.
var v = validator.New()

func init() {
	// proof_type is the closed set of proof kinds the pipeline accepts.
	// Registering it as an alias keeps the request structs readable and the
	// list in one place.
	v.RegisterAlias("proof_type", "oneof=selfie_with_id experience_photo receipt location_check video_proof")
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
