package request

// Merge layers descriptors left to right, later layers winning. Scalars
// and flags override when set; Headers merge key by key (case-insensitive);
// Data and Params are replaced wholesale by the last layer that sets them.
// The result shares nothing with its inputs.
func Merge(layers ...Descriptor) Descriptor {
	var out Descriptor

	for _, l := range layers {
		if l.Method != "" {
			out.Method = l.Method
		}
		if l.URL != "" {
			out.URL = l.URL
		}
		if l.BaseURL != "" {
			out.BaseURL = l.BaseURL
		}
		if l.Data != nil {
			out.Data = l.Data
		}
		if l.Params != nil {
			out.Params = l.Params
		}
		for k, v := range l.Headers {
			out.SetHeader(k, v)
		}
		if l.ContentType != "" {
			out.ContentType = l.ContentType
		}
		if l.ShowProgress != nil {
			out.ShowProgress = l.ShowProgress
		}
		if l.IgnoreCancel != nil {
			out.IgnoreCancel = l.IgnoreCancel
		}
		if l.WithCredentials != nil {
			out.WithCredentials = l.WithCredentials
		}
		if l.IsSuccess != nil {
			out.IsSuccess = l.IsSuccess
		}
		if l.Timeout > 0 {
			out.Timeout = l.Timeout
		}
		if !l.Body.Empty() {
			out.Body = l.Body
		}
	}

	return out.Clone()
}
