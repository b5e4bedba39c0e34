package entities

// Results is the output bag populated by one successful execution.
// It is reset at the start of every execution.
type Results struct {
	values map[string]string
}

// NewResults creates an empty result bag.
func NewResults() *Results {
	return &Results{values: make(map[string]string)}
}

// Set stores an output value.
func (r *Results) Set(key, value string) {
	r.values[key] = value
}

// Get returns an output value.
func (r *Results) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Reset drops every output value.
func (r *Results) Reset() {
	clear(r.values)
}

// Keys returns the output names in sorted order.
func (r *Results) Keys() []string {
	return sortedKeys(r.values)
}

// Len returns the number of outputs.
func (r *Results) Len() int {
	return len(r.values)
}

// Map returns a copy of the outputs.
func (r *Results) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
