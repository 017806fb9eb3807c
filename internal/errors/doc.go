// Package errors provides the structured error type shared by every layer of
// the catalog.
//
// Errors carry a Code, a caller-facing message, an optional cause and
// metadata. The codes map onto the three failure kinds the catalog reports:
//
//   - INVALID_ARGUMENT: a request failed schema validation (ValidationError)
//   - NOT_FOUND: an id did not resolve to a record
//   - UNAVAILABLE: a record store could not be read or written (StoreUnavailable)
//
// ALREADY_EXISTS and INTERNAL cover duplicate ids and everything unexpected.
//
// # Basic Usage
//
//	err := errors.NotFoundf("weapon %d not found", id)
//
//	if err := os.WriteFile(path, data, 0o644); err != nil {
//	    return errors.StoreUnavailable(err, "failed to write collection")
//	}
//
//	if errors.IsNotFound(err) {
//	    // 404
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateRange("rarity", input.Rarity, 1, 5, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer Guidelines
//
// Repository layer:
//   - Wrap I/O failures with StoreUnavailable
//   - Report absence through outputs, not errors
//
// Orchestrator layer:
//   - Validate inputs and return INVALID_ARGUMENT errors
//   - Turn absent records into NOT_FOUND
//   - Wrap repository errors with business context
//
// Handler layer:
//   - Convert errors with ToResponse
//   - Log server-side causes; never return them to the caller
package errors
