package requex

// Envelope is the reply shape of the backends requex is usually pointed at
type Envelope struct {
	Data     any    `json:"data"`
	RespDesc string `json:"respDesc"`
	ErrorMsg string `json:"errorMsg"`
	Success  bool   `json:"success"`
}

// EnvelopeOf reads an Envelope out of a decoded JSON body. ok is false
// when body is not a JSON object.
func EnvelopeOf(body any) (env Envelope, ok bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return Envelope{}, false
	}
	env.Data = m["data"]
	env.RespDesc, _ = m["respDesc"].(string)
	env.ErrorMsg, _ = m["errorMsg"].(string)
	env.Success, _ = m["success"].(bool)
	return env, true
}

// EnvelopeSuccess is the default success predicate: body.success == true
func EnvelopeSuccess(body any) bool {
	env, ok := EnvelopeOf(body)
	return ok && env.Success
}

// Message returns respDesc, falling back to errorMsg
func (e Envelope) Message() string {
	if e.RespDesc != "" {
		return e.RespDesc
	}
	return e.ErrorMsg
}
