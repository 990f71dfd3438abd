package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// The delegate contracts are structural: exactly these keys must be present.
// Pointer fields plus omitempty on the Go types make absence observable in
// the marshaled form, so schema validation sees what the delegate actually
// returned.

const evaluationSchemaJSON = `{
	"type": "object",
	"required": ["action", "userContributionVisible", "suggestion"],
	"properties": {
		"action": {"type": "string", "enum": ["ok", "contribute", "reject"]},
		"userContributionVisible": {"type": "boolean"},
		"agentContributionVisible": {"type": "boolean"},
		"suggestion": {"type": "string"},
		"userMessage": {"type": "object"}
	}
}`

const responseSchemaJSON = `{
	"type": "object",
	"required": ["visible", "message"],
	"properties": {
		"visible": {"type": "boolean"},
		"message": {"type": "string", "minLength": 1},
		"channels": {"type": "array", "items": {"type": "string"}},
		"pause": {"type": "boolean"},
		"messageType": {"type": "string"}
	}
}`

var (
	evaluationSchema *gojsonschema.Schema
	responseSchema   *gojsonschema.Schema
)

func init() {
	var err error
	evaluationSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader([]byte(evaluationSchemaJSON)))
	if err != nil {
		panic(fmt.Sprintf("agent: invalid evaluation schema: %v", err))
	}
	responseSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader([]byte(responseSchemaJSON)))
	if err != nil {
		panic(fmt.Sprintf("agent: invalid response schema: %v", err))
	}
}

// ValidateEvaluation checks that a delegate evaluation carries all required
// properties. A nil evaluation or a missing property is a contract
// violation.
func ValidateEvaluation(e *Evaluation) error {
	if e == nil {
		return fmt.Errorf("%w: evaluation is nil", ErrContractViolation)
	}
	return validateAgainst(evaluationSchema, e, "evaluation")
}

// ValidateResponse checks that a delegate response carries all required
// properties.
func ValidateResponse(r Response) error {
	return validateAgainst(responseSchema, r, "response")
}

func validateAgainst(schema *gojsonschema.Schema, doc any, label string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrContractViolation, label, err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: validate %s: %v", ErrContractViolation, label, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return fmt.Errorf("%w: %s: %s", ErrContractViolation, label, strings.Join(details, "; "))
	}
	return nil
}
