package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/duynhne/workshop-console/internal/core/domain"
	logicv1 "github.com/duynhne/workshop-console/internal/logic/v1"
)

func TestReadPasswordFromStdin(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "newline", in: "s3cret\n", want: "s3cret"},
		{name: "crlf", in: "s3cret\r\n", want: "s3cret"},
		{name: "no newline", in: "s3cret", want: "s3cret"},
		{name: "only first line", in: "one\ntwo\n", want: "one"},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPassword(strings.NewReader(tt.in), &bytes.Buffer{}, true)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("password = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteSession(t *testing.T) {
	var buf bytes.Buffer
	writeSession(&buf, logicv1.Snapshot{}, time.Now())
	if !strings.Contains(buf.String(), "Not signed in") {
		t.Errorf("anonymous output = %q", buf.String())
	}

	buf.Reset()
	writeSession(&buf, logicv1.Snapshot{
		Token: "opaque",
		User:  &domain.UserProfile{ID: 1, Username: "admin", FullName: "Admin User", Email: "admin@test.com", Role: domain.RoleAdmin},
	}, time.Now())
	out := buf.String()
	for _, want := range []string{"admin", "Admin User", "ADMIN"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "Token:") {
		t.Error("opaque token should not print an expiry")
	}
}
