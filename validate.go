package main

import (
	"strings"

	"userapi/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldRule is one entry of a payload schema: value constraints expressed as
// validator tags plus optional database existence checks. Payload keys not
// named by any rule pass through untouched; the codec ignores the ones it
// does not know.
type fieldRule struct {
	name      string
	required  bool
	tags      string // validator/v10 tags for the value
	unique    string // column that must not already hold the value
	mustExist string // column that must already hold the value
}

var createUserRules = []fieldRule{
	{name: "username", required: true, tags: "min=3,max=127", unique: "username"},
	{name: "email", required: true, tags: "email", unique: "email"},
	{name: "password", required: true, tags: "min=3,max=255"},
}

var updateUserRules = []fieldRule{
	{name: "username", tags: "min=3,max=127", unique: "username"},
	{name: "email", tags: "email", unique: "email"},
	{name: "password", tags: "min=3,max=255"},
}

var forgotRules = []fieldRule{
	{name: "email", required: true, tags: "email", mustExist: "email"},
}

var recoveryRules = []fieldRule{
	{name: "password", required: true, tags: "min=3,max=255"},
	{name: "confirm_password", required: true, tags: "min=3,max=255"},
}

// validatePayload checks the payload against the schema. Every failure is a
// conflict carrying a "<field> <problem>" message. Keys the schema does not
// name are stripped before the codec ever sees them, so a payload can only
// touch the columns the rule set lists.
func validatePayload(data map[string]any, rules []fieldRule) *APIError {
	allowed := make(map[string]bool, len(rules))
	for _, r := range rules {
		allowed[r.name] = true
	}
	for k := range data {
		if !allowed[k] {
			delete(data, k)
		}
	}
	for _, r := range rules {
		v, ok := data[r.name]
		if !ok || v == nil {
			if r.required {
				return conflict(r.name + " required key not provided")
			}
			continue
		}
		s, ok := v.(string)
		if !ok {
			return conflict(r.name + " expected a string")
		}
		if r.tags != "" {
			if err := validate.Var(s, r.tags); err != nil {
				if strings.Contains(r.tags, "email") {
					return conflict(r.name + " expected an Email")
				}
				return conflict(r.name + " is not valid")
			}
		}
		if r.unique != "" && userFieldTaken(r.unique, s) {
			return conflict(r.unique + " already exists in the database")
		}
		if r.mustExist != "" && !userFieldTaken(r.mustExist, s) {
			return conflict(r.mustExist + " doesn't exists in the database")
		}
	}
	return nil
}

func userFieldTaken(column, value string) bool {
	var count int64
	db.Model(&models.User{}).Where(column+" = ?", value).Count(&count)
	return count > 0
}

// validateRecovery additionally requires the two password fields to match.
func validateRecovery(data map[string]any) *APIError {
	if apiErr := validatePayload(data, recoveryRules); apiErr != nil {
		return apiErr
	}
	if data["password"] != data["confirm_password"] {
		return conflict("password and confirm password must match")
	}
	return nil
}
