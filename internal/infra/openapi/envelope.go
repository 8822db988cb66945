package openapi

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
)

// resultCodeOK is the success result code shared by the open-data portal
// API families.
const resultCodeOK = "00"

// EnvelopeKind identifies which response envelope shape a body carried.
// The upstream families do not agree on one error format: the JSON family
// reports errors inside its normal envelope but may also answer with a raw
// XML error document, and the two XML generations use different error
// structures. Classification is kept separate from the HTTP layer so it can
// be tested in isolation.
type EnvelopeKind int

const (
	// KindUnrecognized means the body matched no known envelope shape.
	KindUnrecognized EnvelopeKind = iota

	// KindJSONSuccess is a JSON envelope with the success result code.
	KindJSONSuccess

	// KindJSONError is a JSON envelope reporting a non-success result code.
	KindJSONError

	// KindXMLGen1Error is the older XML error shape: response/header with a
	// non-success resultCode.
	KindXMLGen1Error

	// KindXMLGen2Error is the newer XML error shape:
	// OpenAPI_ServiceResponse/cmmMsgHeader with an errMsg.
	KindXMLGen2Error
)

// String returns a log-friendly name for the envelope kind.
func (k EnvelopeKind) String() string {
	switch k {
	case KindJSONSuccess:
		return "json-success"
	case KindJSONError:
		return "json-error"
	case KindXMLGen1Error:
		return "xml-gen1-error"
	case KindXMLGen2Error:
		return "xml-gen2-error"
	default:
		return "unrecognized"
	}
}

// Classification is the result of probing a response body for its envelope
// shape. Code and Message are filled from whichever header structure matched.
type Classification struct {
	Kind    EnvelopeKind
	Code    string
	Message string
}

// envelopeHeader is the shared header of the portal's JSON envelope.
type envelopeHeader struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

// jsonProbe decodes just enough of a JSON body to read the result code.
type jsonProbe struct {
	Response struct {
		Header envelopeHeader `json:"header"`
	} `json:"response"`
}

// xmlGen1Probe matches the older generation's response/header error shape.
type xmlGen1Probe struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
}

// xmlGen2Probe matches the newer generation's OpenAPI_ServiceResponse shape,
// which some sources emit unconditionally on failure.
type xmlGen2Probe struct {
	XMLName   xml.Name `xml:"OpenAPI_ServiceResponse"`
	CmmHeader struct {
		ErrMsg           string `xml:"errMsg"`
		ReturnAuthMsg    string `xml:"returnAuthMsg"`
		ReturnReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

// LooksLikeXML reports whether a body that was requested as JSON actually
// arrived as XML. The portal emits XML error documents regardless of the
// requested response type, so a leading '<' is the reliable tell.
func LooksLikeXML(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n\uFEFF")
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// Classify probes a response body and reports which envelope shape it
// carries. Bodies that parse as no known shape, including empty bodies,
// come back as KindUnrecognized.
func Classify(body []byte) Classification {
	if len(bytes.TrimSpace(body)) == 0 {
		return Classification{Kind: KindUnrecognized}
	}

	if !LooksLikeXML(body) {
		var probe jsonProbe
		if err := json.Unmarshal(body, &probe); err != nil || probe.Response.Header.ResultCode == "" {
			return Classification{Kind: KindUnrecognized}
		}
		kind := KindJSONSuccess
		if probe.Response.Header.ResultCode != resultCodeOK {
			kind = KindJSONError
		}
		return Classification{
			Kind:    kind,
			Code:    probe.Response.Header.ResultCode,
			Message: probe.Response.Header.ResultMsg,
		}
	}

	var gen2 xmlGen2Probe
	if err := xml.Unmarshal(body, &gen2); err == nil {
		return Classification{
			Kind:    KindXMLGen2Error,
			Code:    gen2.CmmHeader.ReturnReasonCode,
			Message: firstNonEmpty(gen2.CmmHeader.ErrMsg, gen2.CmmHeader.ReturnAuthMsg),
		}
	}

	var gen1 xmlGen1Probe
	if err := xml.Unmarshal(body, &gen1); err == nil && gen1.Header.ResultCode != "" {
		return Classification{
			Kind:    KindXMLGen1Error,
			Code:    gen1.Header.ResultCode,
			Message: gen1.Header.ResultMsg,
		}
	}

	return Classification{Kind: KindUnrecognized}
}

// ItemList absorbs the portal's single-object-or-array inconsistency: when
// an endpoint has exactly one result the items field arrives as an object
// instead of a one-element array. Both shapes decode to a slice.
type ItemList[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *ItemList[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		*l = nil
		return nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var single T
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = ItemList[T]{single}
	return nil
}

// flexInt decodes totalCount fields that arrive either as a JSON number or
// as a quoted string.
type flexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
