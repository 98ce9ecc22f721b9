package validation

import (
	"encoding/json"
	"testing"
)

func decodeErrs(t *testing.T, err error) map[string]string {
	t.Helper()
	js, jerr := ErrorsToJson(err)
	if jerr != nil {
		t.Fatalf("ErrorsToJson() error = %v", jerr)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(js), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return got
}

func TestValidateStructAndErrorsToJson(t *testing.T) {
	type Input struct {
		Email string `validate:"required,email"  json:"email"`
		Tags  []int  `validate:"min=1,dive,gt=0" json:"tags"`
	}

	tests := []struct {
		name        string
		in          Input
		wantErr     bool
		wantJsonMap map[string]string
	}{
		{
			name:    "success",
			in:      Input{Email: "a@b.com", Tags: []int{1, 2, 3}},
			wantErr: false,
		},
		{
			name:    "missing email",
			in:      Input{Email: "", Tags: []int{1}},
			wantErr: true,
			wantJsonMap: map[string]string{
				"email": "required",
			},
		},
		{
			name:    "invalid email and empty tags",
			in:      Input{Email: "not-an-email", Tags: []int{}},
			wantErr: true,
			wantJsonMap: map[string]string{
				"email": "email",
				"tags":  "min",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			got := decodeErrs(t, err)
			for field, tag := range tt.wantJsonMap {
				if got[field] != tag {
					t.Errorf("field %q: got %q, want %q", field, got[field], tag)
				}
			}
		})
	}
}

func TestCustomTags(t *testing.T) {
	type Input struct {
		Status  string `validate:"omitempty,videostatus" json:"status"`
		BlobURL string `validate:"required,httpurl" json:"blobUrl"`
	}

	tests := []struct {
		name       string
		in         Input
		wantErrMap map[string]string
	}{
		{name: "all good", in: Input{Status: "ready", BlobURL: "https://blob.example.com/a.mp4"}},
		{name: "empty status is skipped", in: Input{BlobURL: "http://blob.example.com/a.mp4"}},
		{
			name:       "unknown status",
			in:         Input{Status: "done", BlobURL: "https://blob.example.com/a.mp4"},
			wantErrMap: map[string]string{"status": "videostatus"},
		},
		{
			name:       "relative url",
			in:         Input{BlobURL: "/videos/a.mp4"},
			wantErrMap: map[string]string{"blobUrl": "httpurl"},
		},
		{
			name:       "ftp url",
			in:         Input{BlobURL: "ftp://blob.example.com/a.mp4"},
			wantErrMap: map[string]string{"blobUrl": "httpurl"},
		},
		{
			name:       "missing url",
			in:         Input{Status: "error"},
			wantErrMap: map[string]string{"blobUrl": "required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != (tt.wantErrMap != nil) {
				t.Fatalf("ValidateStruct() err = %v, want errors %v", err, tt.wantErrMap)
			}
			if err == nil {
				return
			}
			got := decodeErrs(t, err)
			if len(got) != len(tt.wantErrMap) {
				t.Errorf("errors = %v; want %v", got, tt.wantErrMap)
			}
			for f, wantTag := range tt.wantErrMap {
				if got[f] != wantTag {
					t.Errorf("field %q: got %q, want %q", f, got[f], wantTag)
				}
			}
		})
	}
}

func TestNestedAndJsonTagFallback(t *testing.T) {
	type Inner struct {
		Foo string `validate:"required" json:"foo"`
	}
	type Outer struct {
		In  *Inner `validate:"required" json:"inner"`
		Bar int    `validate:"required"             `
	}

	t.Run("nil nested struct", func(t *testing.T) {
		err := ValidateStruct(Outer{In: nil, Bar: 0})
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		got := decodeErrs(t, err)
		if got["inner"] != "required" {
			t.Errorf("inner: got %q, want %q", got["inner"], "required")
		}
		if got["Bar"] != "required" {
			t.Errorf("Bar: got %q, want %q", got["Bar"], "required")
		}
	})

	t.Run("missing nested field", func(t *testing.T) {
		err := ValidateStruct(Outer{In: &Inner{Foo: ""}, Bar: 0})
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		got := decodeErrs(t, err)
		if got["foo"] != "required" {
			t.Errorf("foo: got %q, want %q", got["foo"], "required")
		}
	})
}
