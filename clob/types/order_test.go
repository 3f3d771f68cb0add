package types

import "testing"

func TestOrderResponse_Filled(t *testing.T) {
	tests := []struct {
		resp *OrderResponse
		want bool
	}{
		{nil, false},
		{&OrderResponse{Status: "success"}, true},
		{&OrderResponse{Status: "SUCCESS"}, true},
		{&OrderResponse{Status: "matched"}, true},
		{&OrderResponse{Status: "Matched"}, true},
		{&OrderResponse{Status: "unmatched"}, false},
		{&OrderResponse{Status: "live"}, false},
		{&OrderResponse{Status: "delayed"}, false},
		{&OrderResponse{Status: ""}, false},
		// success 标志不参与判断，只看 status
		{&OrderResponse{Success: true, Status: "live"}, false},
	}
	for _, tt := range tests {
		if got := tt.resp.Filled(); got != tt.want {
			t.Fatalf("Filled(%+v) = %v，期望 %v", tt.resp, got, tt.want)
		}
	}
}
