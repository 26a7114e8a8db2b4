package locator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

func TestParseOffsets(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []types.TimestampOffset
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  "[45, 182, 350, 512]",
			want: []types.TimestampOffset{45, 182, 350, 512},
		},
		{
			name: "fenced json",
			raw:  "```json\n[45, 182]\n```",
			want: []types.TimestampOffset{45, 182},
		},
		{
			name: "fenced without language tag",
			raw:  "```\n[7]\n```",
			want: []types.TimestampOffset{7},
		},
		{
			name: "empty array",
			raw:  "[]",
			want: []types.TimestampOffset{},
		},
		{
			name:    "top level not an array",
			raw:     `{"timestamps": [45]}`,
			wantErr: true,
		},
		{
			name:    "string element",
			raw:     `[45, "182"]`,
			wantErr: true,
		},
		{
			name:    "float element",
			raw:     "[45.5]",
			wantErr: true,
		},
		{
			name:    "negative offset",
			raw:     "[-3]",
			wantErr: true,
		},
		{
			name:    "prose around the array",
			raw:     "Here are the timestamps: [45, 182]",
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOffsets(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !errors.Is(err, ErrContract) {
					t.Fatalf("expected ErrContract, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []types.TimestampOffset
		want []types.TimestampOffset
	}{
		{
			name: "duplicates removed and sorted",
			in:   []types.TimestampOffset{45, 182, 45, 350},
			want: []types.TimestampOffset{45, 182, 350},
		},
		{
			name: "unsorted input",
			in:   []types.TimestampOffset{350, 45, 182},
			want: []types.TimestampOffset{45, 182, 350},
		},
		{
			name: "empty input",
			in:   nil,
			want: []types.TimestampOffset{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}

			// Normalizing an already-normalized sequence must be a no-op.
			again := Normalize(got)
			if !reflect.DeepEqual(again, got) {
				t.Fatalf("normalize is not idempotent: %v then %v", got, again)
			}
		})
	}
}
