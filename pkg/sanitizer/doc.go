// Package sanitizer normalizes and formats user input for Brazilian
// registration forms.
//
// Mask renders digits through a display pattern the way a masked input widget
// does; the Format* helpers apply the standard patterns:
//
//	sanitizer.FormatCPF("52998224725")      // "529.982.247-25"
//	sanitizer.FormatCNPJ("11222333000181")  // "11.222.333/0001-81"
//	sanitizer.FormatCEP("0131010")          // "01310-10" (partial input)
//	sanitizer.FormatMobile("11988887777")   // "(11) 98888-7777"
//
// Masks are presentation only. Validation always works on DigitsOnly output,
// so a value is judged identically with or without its punctuation.
//
// Apply and Compose chain string transforms:
//
//	clean := sanitizer.Compose(sanitizer.StripControl, sanitizer.NormalizeWhitespace)
package sanitizer
