package pipeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func serve(h http.Handler, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okEndpoint(req *Request) *Response {
	return Success("ok", map[string]any{"echo": req.StringField("name"), "n": req.IntField("n")})
}

func TestShape(t *testing.T) {
	t.Parallel()

	h := Handler(okEndpoint, Shape(String("name"), Int("n")))

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantCode    float64
		wantMsg     string
	}{
		{"no content type", "", `{"name":"a","n":1}`, 400, 401, "Where is JSON?"},
		{"wrong content type", "text/plain", `{"name":"a","n":1}`, 400, 401, "Where is JSON?"},
		{"malformed json", "application/json", `{"name":`, 400, 401, "Where is JSON?"},
		{"array body", "application/json", `[1,2]`, 400, 401, "Where is JSON?"},
		{"null body", "application/json", `null`, 400, 401, "Where is JSON?"},
		{"trailing garbage", "application/json", `{"name":"a","n":1} x`, 400, 401, "Where is JSON?"},
		{"missing first field", "application/json", `{"n":1}`, 400, 402, "Where is name?"},
		{"null field", "application/json", `{"name":null,"n":1}`, 400, 402, "Where is name?"},
		{"first failure wins", "application/json", `{}`, 400, 402, "Where is name?"},
		{"string expected", "application/json", `{"name":5,"n":1}`, 400, 402, "Field name has type int but expected string."},
		{"int got string", "application/json", `{"name":"a","n":"1"}`, 400, 402, "Field n has type string but expected int."},
		{"int got float", "application/json", `{"name":"a","n":1.5}`, 400, 402, "Field n has type float but expected int."},
		{"int got exponent", "application/json", `{"name":"a","n":1e2}`, 400, 402, "Field n has type float but expected int."},
		{"int got bool", "application/json", `{"name":"a","n":true}`, 400, 402, "Field n has type bool but expected int."},
		{"int got array", "application/json", `{"name":"a","n":[1]}`, 400, 402, "Field n has type array but expected int."},
		{"int got object", "application/json", `{"name":"a","n":{}}`, 400, 402, "Field n has type object but expected int."},
		{"int overflow", "application/json", `{"name":"a","n":9223372036854775808}`, 400, 402, "Field n has type float but expected int."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(h, tt.contentType, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeEnvelope(t, rec)
			if body["status"] != StatusError {
				t.Errorf("status field = %v, want error", body["status"])
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if body["msg"] != tt.wantMsg {
				t.Errorf("msg = %q, want %q", body["msg"], tt.wantMsg)
			}
		})
	}
}

func TestShape_Valid(t *testing.T) {
	t.Parallel()

	h := Handler(okEndpoint, Shape(String("name"), Int("n")))
	rec := serve(h, "application/json; charset=utf-8", `{"name":"alice","n":9223372036854775807,"extra":[1]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Status string `json:"status"`
		Msg    string `json:"msg"`
		Code   *int   `json:"code"`
		Echo   string `json:"echo"`
		N      int64  `json:"n"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != StatusSuccess || body.Msg != "ok" || body.Code != nil {
		t.Errorf("unexpected envelope: %+v", body)
	}
	if body.Echo != "alice" || body.N != 9223372036854775807 {
		t.Errorf("unexpected payload: %+v", body)
	}
}

func TestHandler_GuardsRunInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	guard := func(name string, stop bool) Guard {
		return func(*Request) *Response {
			order = append(order, name)
			if stop {
				return Fail(http.StatusTeapot, 7, name)
			}
			return nil
		}
	}
	endpoint := func(*Request) *Response {
		order = append(order, "endpoint")
		return Success("done", nil)
	}

	rec := serve(Handler(endpoint, guard("a", false), guard("b", true), guard("c", false)), "application/json", `{}`)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestHandler_NilEndpointResponse(t *testing.T) {
	t.Parallel()

	rec := serve(Handler(func(*Request) *Response { return nil }), "application/json", `{}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestResponse_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(MethodNotAllowed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"code":null,"msg":"Method not allowed.","status":"error"}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}

	b, err = json.Marshal(Success("hi", map[string]any{"status": "spoofed", "token": "t"}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"code":null,"msg":"hi","status":"success","token":"t"}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestShape_DeclarationOrderWins(t *testing.T) {
	t.Parallel()

	// b is declared first and has the wrong type; a is missing.
	h := Handler(okEndpoint, Shape(String("b"), String("a")))
	body := decodeEnvelope(t, serve(h, "application/json", `{"b":5}`))

	if body["msg"] != "Field b has type int but expected string." {
		t.Errorf("msg = %q, want the error for b", body["msg"])
	}
}
