package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, want: false},
		{
			name: "postgres duplicate key",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "customers_email_key" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name:       "named constraint matches",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "customers_email_key"`),
			constraint: "customers_email_key",
			want:       true,
		},
		{
			name:       "named constraint does not match",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "deliveries_number_key"`),
			constraint: "customers_email_key",
			want:       false,
		},
		{
			name: "sqlite unique constraint",
			err:  errors.New("UNIQUE constraint failed: customers.email"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tc.want)
			}
		})
	}
}
