package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClientPostSendsBearerAndDecodesData(t *testing.T) {
	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		var payload map[string]any
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if payload["fullName"] != "Lan" {
			t.Fatalf("unexpected payload %v", payload)
		}
		return jsonResponse(http.StatusOK, `{"data":{"orderCode":"OC-1"}}`), nil
	})

	client, err := NewClient("http://shop.test/api/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	var out struct {
		OrderCode string `json:"orderCode"`
	}
	if err := client.Post(context.Background(), "/Payment/payment-by-cash", "tok", map[string]string{"fullName": "Lan"}, &out); err != nil {
		t.Fatalf("post: %v", err)
	}
	if capturedURL != "http://shop.test/api/Payment/payment-by-cash" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("Authorization") != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", capturedHeaders.Get("Authorization"))
	}
	if capturedHeaders.Get("Content-Type") != "application/json" {
		t.Fatalf("expected json content type")
	}
	if out.OrderCode != "OC-1" {
		t.Fatalf("unexpected decoded data %+v", out)
	}
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "" {
			t.Fatalf("did not expect authorization header")
		}
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	})
	client, _ := NewClient("http://shop.test", WithHTTPClient(&http.Client{Transport: rt}))

	var out []string
	if err := client.Get(context.Background(), "Size", "", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestClientMapsStatusErrors(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
		{http.StatusBadRequest, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, `{"message":"nope"}`), nil
		})
		client, _ := NewClient("http://shop.test", WithHTTPClient(&http.Client{Transport: rt}))

		err := client.Get(context.Background(), "Topping", "", &struct{}{})
		if !pkgerrors.IsCode(err, tc.code) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.code, err)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != tc.status {
			t.Fatalf("status %d: expected StatusError in chain, got %v", tc.status, err)
		}
	}
}

func TestClientRejectsEmptyEnvelope(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":null}`), nil
	})
	client, _ := NewClient("http://shop.test", WithHTTPClient(&http.Client{Transport: rt}))

	if err := client.Get(context.Background(), "Size", "", &struct{}{}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientTransportFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: refused")
	})
	client, _ := NewClient("http://shop.test", WithHTTPClient(&http.Client{Transport: rt}))

	if err := client.Get(context.Background(), "Size", "", nil); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected base URL error")
	}
}
