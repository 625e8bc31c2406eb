package sync

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

func TestProcessDropsMalformedMessage(t *testing.T) {
	processor := NewProcessor(nil, nil)
	msg := types.Message{Body: aws.String("{not json")}

	retry, _, err := processor.Process(context.Background(), msg)
	if err == nil {
		t.Fatalf("expected an unmarshal error")
	}
	if retry {
		t.Fatalf("malformed messages must not be retried")
	}
}

func TestReceiveCount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "missing attribute defaults to 1", value: "", want: 1},
		{name: "parses the delivery attempt", value: "4", want: 4},
		{name: "garbage defaults to 1", value: "many", want: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			msg := types.Message{}
			if testCase.value != "" {
				msg.Attributes = map[string]string{
					string(types.MessageSystemAttributeNameApproximateReceiveCount): testCase.value,
				}
			}
			if got := receiveCount(msg); got != testCase.want {
				t.Fatalf("receiveCount() = %d, want %d", got, testCase.want)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		retryCount int
		want       int32
	}{
		{retryCount: 1, want: 20},
		{retryCount: 2, want: 40},
		{retryCount: 5, want: 320},
		{retryCount: 20, want: 3600}, // capped at one hour
	}

	for _, testCase := range tests {
		if got := calculateBackoff(testCase.retryCount); got != testCase.want {
			t.Fatalf("calculateBackoff(%d) = %d, want %d", testCase.retryCount, got, testCase.want)
		}
	}
}
