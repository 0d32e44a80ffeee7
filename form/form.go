// Package form is a configuration-driven field validator shared by every
// form in the client. Rules for a field run in order and evaluation stops at
// the first failure. The engine tracks which fields the user has interacted
// with so errors never appear before first contact with a field.
package form

// A Rule checks one value and returns an error message, or "" when the value
// passes. Rules always receive the full current value set so cross-field
// checks (password confirmation) see live data.
type Rule func(value string, values map[string]string) string

// Form holds the state of one mounted form: current values, visible errors,
// and the set of touched fields. It performs no I/O.
type Form struct {
	rules   map[string][]Rule
	values  map[string]string
	errors  map[string]string
	touched map[string]bool
}

// New creates a Form with the given initial values and per-field rule chains.
func New(initial map[string]string, rules map[string][]Rule) *Form {
	f := &Form{
		rules:   rules,
		values:  make(map[string]string, len(initial)),
		errors:  make(map[string]string),
		touched: make(map[string]bool),
	}
	for name, v := range initial {
		f.values[name] = v
	}
	return f
}

// Validate runs the field's rule chain against its current value and returns
// the first failing rule's message, or "" when every rule passes. A field
// with no configured rules always passes.
func (f *Form) Validate(name string) string {
	for _, rule := range f.rules[name] {
		if msg := rule(f.values[name], f.values); msg != "" {
			return msg
		}
	}
	return ""
}

// Change updates a field's value. The field is re-validated only if it has
// been touched before, so a user is not shown an error mid-first-entry.
func (f *Form) Change(name, value string) {
	f.values[name] = value
	if f.touched[name] {
		f.setError(name, f.Validate(name))
	}
}

// Blur marks the field touched and validates it unconditionally.
func (f *Form) Blur(name string) {
	f.touched[name] = true
	f.setError(name, f.Validate(name))
}

// ValidateAll validates every configured field, marks them all touched, and
// reports whether the whole form is clean.
func (f *Form) ValidateAll() bool {
	valid := true
	for name := range f.rules {
		f.touched[name] = true
		msg := f.Validate(name)
		f.setError(name, msg)
		if msg != "" {
			valid = false
		}
	}
	return valid
}

// Value returns the field's current value.
func (f *Form) Value(name string) string { return f.values[name] }

// Err returns the field's visible error message, or "".
func (f *Form) Err(name string) string { return f.errors[name] }

// Touched reports whether the user has interacted with the field.
func (f *Form) Touched(name string) bool { return f.touched[name] }

// Values returns a copy of the current value set.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for name, v := range f.values {
		out[name] = v
	}
	return out
}

// Errors returns a copy of the visible (non-empty) error messages.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for name, msg := range f.errors {
		if msg != "" {
			out[name] = msg
		}
	}
	return out
}

// Reset replaces the named fields' values and clears their errors and
// touched state. Fields not named keep their state.
func (f *Form) Reset(fields map[string]string) {
	for name, v := range fields {
		f.values[name] = v
		delete(f.errors, name)
		delete(f.touched, name)
	}
}

func (f *Form) setError(name, msg string) {
	if msg == "" {
		delete(f.errors, name)
		return
	}
	f.errors[name] = msg
}
