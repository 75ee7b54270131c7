// Package validator provides a fluent string validator and a helper that
// aggregates field errors.
//
// Each field gets its own StringValidator. Inputs are *string so that an
// absent field can be told apart from an empty one:
//
//	in := validator.Input(r.PostForm, "title", "description")
//	fields := map[string]*validator.StringValidator{
//		"title":       validator.String(in["title"]).Trim().MinLength(1).MaxLength(255),
//		"description": validator.String(in["description"]).Trim().MinLength(1).MaxLength(1000),
//	}
//	values, err := validator.Validate(fields, in)
//	if err != nil {
//		return err // *validator.ValidationError
//	}
//
// Validators are required unless Optional is passed. An optional absent field
// skips every rule and is left out of the returned values.
package validator
