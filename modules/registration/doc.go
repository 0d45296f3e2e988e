// Package registration exposes the registration forms over HTTP, mounted
// under /forms:
//
//	GET  /forms                        form names and titles
//	GET  /forms/{form}                 fields, toggles and rules
//	POST /forms/{form}/validate        {valid, fields, errors}
//	POST /forms/{form}/fields/{field}  feedback for one input
//	POST /forms/{form}/format          values with display masks applied
//	POST /forms/{form}/submit          validate and deliver; 202 with a receipt
//
// Values come as url-encoded form fields or as a "values" object in JSON
// bodies and Datastar signals. Datastar requests get their answers as
// patched signals (valid, fieldErrors, values, submitted).
package registration
