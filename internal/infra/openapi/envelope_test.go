package openapi

import (
	"encoding/json"
	"testing"
)

func TestClassify_JSONSuccess(t *testing.T) {
	body := []byte(`{"response":{"header":{"resultCode":"00","resultMsg":"NORMAL SERVICE."}}}`)

	cls := Classify(body)
	if cls.Kind != KindJSONSuccess {
		t.Fatalf("Kind = %v, want %v", cls.Kind, KindJSONSuccess)
	}
	if cls.Code != "00" {
		t.Errorf("Code = %q, want %q", cls.Code, "00")
	}
}

func TestClassify_JSONError(t *testing.T) {
	body := []byte(`{"response":{"header":{"resultCode":"22","resultMsg":"LIMITED NUMBER OF SERVICE REQUESTS EXCEEDS ERROR."}}}`)

	cls := Classify(body)
	if cls.Kind != KindJSONError {
		t.Fatalf("Kind = %v, want %v", cls.Kind, KindJSONError)
	}
	if cls.Code != "22" {
		t.Errorf("Code = %q, want %q", cls.Code, "22")
	}
}

func TestClassify_XMLGen1Error(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header>
    <resultCode>03</resultCode>
    <resultMsg>NODATA_ERROR</resultMsg>
  </header>
</response>`)

	cls := Classify(body)
	if cls.Kind != KindXMLGen1Error {
		t.Fatalf("Kind = %v, want %v", cls.Kind, KindXMLGen1Error)
	}
	if cls.Code != "03" {
		t.Errorf("Code = %q, want %q", cls.Code, "03")
	}
	if cls.Message != "NODATA_ERROR" {
		t.Errorf("Message = %q, want %q", cls.Message, "NODATA_ERROR")
	}
}

func TestClassify_XMLGen2Error(t *testing.T) {
	body := []byte(`<OpenAPI_ServiceResponse>
  <cmmMsgHeader>
    <errMsg>SERVICE ERROR</errMsg>
    <returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg>
    <returnReasonCode>30</returnReasonCode>
  </cmmMsgHeader>
</OpenAPI_ServiceResponse>`)

	cls := Classify(body)
	if cls.Kind != KindXMLGen2Error {
		t.Fatalf("Kind = %v, want %v", cls.Kind, KindXMLGen2Error)
	}
	if cls.Code != "30" {
		t.Errorf("Code = %q, want %q", cls.Code, "30")
	}
	if cls.Message != "SERVICE ERROR" {
		t.Errorf("Message = %q, want %q", cls.Message, "SERVICE ERROR")
	}
}

func TestClassify_Unrecognized(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"garbage", "Internal Server Error"},
		{"truncated json", `{"response":{"head`},
		{"json without result code", `{"response":{"body":{"items":[]}}}`},
		{"unknown xml", `<html><body>maintenance</body></html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls := Classify([]byte(tc.body))
			if cls.Kind != KindUnrecognized {
				t.Errorf("Kind = %v, want %v", cls.Kind, KindUnrecognized)
			}
		})
	}
}

func TestLooksLikeXML(t *testing.T) {
	if !LooksLikeXML([]byte("\n  <?xml version=\"1.0\"?><response/>")) {
		t.Error("leading whitespace before XML should still be detected")
	}
	if LooksLikeXML([]byte(`{"response":{}}`)) {
		t.Error("JSON body misdetected as XML")
	}
	if LooksLikeXML(nil) {
		t.Error("empty body misdetected as XML")
	}
}

func TestItemList_SingleObject(t *testing.T) {
	var list ItemList[IncheonItem]
	body := []byte(`{"flightid":"KE1201","st":"0700"}`)

	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("length = %d, want 1", len(list))
	}
	if list[0].FlightID != "KE1201" {
		t.Errorf("FlightID = %q, want %q", list[0].FlightID, "KE1201")
	}
}

func TestItemList_Array(t *testing.T) {
	var list ItemList[IncheonItem]
	body := []byte(`[{"flightid":"KE1201"},{"flightid":"OZ8901"}]`)

	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("length = %d, want 2", len(list))
	}
}

func TestItemList_EmptyShapes(t *testing.T) {
	for _, body := range []string{`null`, `""`, `[]`} {
		var list ItemList[IncheonItem]
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", body, err)
		}
		if len(list) != 0 {
			t.Errorf("Unmarshal(%s) length = %d, want 0", body, len(list))
		}
	}
}

func TestFlexInt(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{`1234`, 1234},
		{`"1234"`, 1234},
		{`null`, 0},
		{`""`, 0},
	}

	for _, tc := range cases {
		var n flexInt
		if err := json.Unmarshal([]byte(tc.body), &n); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tc.body, err)
		}
		if int(n) != tc.want {
			t.Errorf("Unmarshal(%s) = %d, want %d", tc.body, n, tc.want)
		}
	}
}
