// Package validator provides composable validation rules for request input.
//
// Validation is expressed as a list of rules applied together, collecting
// every failure into a ValidationErrors value rather than stopping at the
// first one:
//
//	if err := validator.Apply(
//		validator.RequiredString("name", req.Name),
//		validator.ValidEmail("email", req.Email),
//		validator.MinLenString("password", req.Password, 6),
//	); err != nil {
//		if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//			// render field errors
//		}
//	}
package validator
