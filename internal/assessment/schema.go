// internal/assessment/schema.go
package assessment

import (
	"encoding/json"
	"fmt"
	"sync"

	apperrors "wellness-assessment/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// assessmentDataSchema checks the shape of a raw payload. Tag membership is
// checked afterwards by Normalize against the engine's tables.
var assessmentDataSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"current_salary":             map[string]interface{}{"type": []string{"integer", "null"}},
		"field":                      nullableString,
		"experience_level":           nullableString,
		"company_size":               nullableString,
		"location":                   nullableString,
		"industry":                   nullableString,
		"skills":                     nullableStringArray,
		"required_skills":            nullableStringArray,
		"relationship_status":        nullableString,
		"financial_stress_frequency": nullableString,
		"emotional_triggers":         nullableStringArray,
		"education_level":            nullableString,
		"age_group":                  nullableString,
	},
	"additionalProperties": true,
}

var (
	nullableString      = map[string]interface{}{"type": []string{"string", "null"}}
	nullableStringArray = map[string]interface{}{
		"type":  []string{"array", "null"},
		"items": map[string]interface{}{"type": "string"},
	}
)

var (
	compiledSchema     *gojsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func schema() (*gojsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(assessmentDataSchema))
	})
	return compiledSchema, compiledSchemaErr
}

// ParseAssessmentData converts a loosely typed payload (job variables, decoded
// JSON) into an AssessmentInput. Wrong types are reported as InvalidInput with
// one FieldError per offending field; a nil payload is an empty input.
func ParseAssessmentData(data map[string]interface{}) (AssessmentInput, error) {
	if data == nil {
		return AssessmentInput{}, nil
	}

	s, err := schema()
	if err != nil {
		return AssessmentInput{}, fmt.Errorf("compile assessment schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return AssessmentInput{}, apperrors.NewInvalidInputError([]apperrors.FieldError{
			{Field: "(root)", Message: err.Error()},
		})
	}
	if !result.Valid() {
		fields := make([]apperrors.FieldError, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			fields = append(fields, apperrors.FieldError{Field: re.Field(), Message: re.Description()})
		}
		return AssessmentInput{}, apperrors.NewInvalidInputError(fields)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return AssessmentInput{}, apperrors.NewInvalidInputError([]apperrors.FieldError{
			{Field: "(root)", Message: err.Error()},
		})
	}
	var in AssessmentInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return AssessmentInput{}, apperrors.NewInvalidInputError([]apperrors.FieldError{
			{Field: "(root)", Message: err.Error()},
		})
	}
	return in, nil
}
