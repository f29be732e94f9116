package gowindow

import (
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type testRecord map[string]any

func (r testRecord) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

type testUser struct {
	ID        uint `gorm:"primaryKey"`
	Email     string
	CreatedAt time.Time
}

func Test_Accessors(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	users, err := NewStructAccessor[testUser]()
	require.NoError(t, err)
	userPtrs, err := NewStructAccessor[*testUser]()
	require.NoError(t, err)

	tests := []struct {
		name    string
		get     func() (any, error)
		want    any
		wantErr bool
	}{
		{
			name: "map row",
			get: func() (any, error) {
				return MapAccessor[any]{}.Get(map[string]any{"id": int64(5)}, "id")
			},
			want: int64(5),
		},
		{
			name: "map row missing column",
			get: func() (any, error) {
				return MapAccessor[any]{}.Get(map[string]any{"id": int64(5)}, "name")
			},
			wantErr: true,
		},
		{
			name: "record",
			get: func() (any, error) {
				return RecordAccessor[testRecord]{}.Get(testRecord{"score": 1.5}, "score")
			},
			want: 1.5,
		},
		{
			name: "record missing field",
			get: func() (any, error) {
				return RecordAccessor[testRecord]{}.Get(testRecord{}, "score")
			},
			wantErr: true,
		},
		{
			name: "struct by column name",
			get: func() (any, error) {
				return users.Get(testUser{ID: 9, CreatedAt: createdAt}, "created_at")
			},
			want: createdAt,
		},
		{
			name: "struct by go field name",
			get: func() (any, error) {
				return users.Get(testUser{ID: 9}, "ID")
			},
			want: uint(9),
		},
		{
			name: "struct pointer",
			get: func() (any, error) {
				return userPtrs.Get(&testUser{Email: "a@b.c"}, "email")
			},
			want: "a@b.c",
		},
		{
			name: "nil struct pointer",
			get: func() (any, error) {
				return userPtrs.Get(nil, "email")
			},
			wantErr: true,
		},
		{
			name: "struct unknown field",
			get: func() (any, error) {
				return users.Get(testUser{}, "rating")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_Stringify(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC)

	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{"string", "abc", "abc", false},
		{"bytes", []byte("abc"), "abc", false},
		{"int", 42, "42", false},
		{"int64", int64(-7), "-7", false},
		{"uint", uint(9), "9", false},
		{"float", 1.25, "1.25", false},
		{"bool", true, "true", false},
		{"time", ts, "2024-05-06T07:08:09.00000001Z", false},
		{"time pointer", &ts, "2024-05-06T07:08:09.00000001Z", false},
		{"int pointer", lo.ToPtr(11), "11", false},
		{"stringer", big.NewInt(123), "123", false},
		{"nil", nil, "", true},
		{"nil pointer", (*int)(nil), "", true},
		{"nil bytes", []byte(nil), "", true},
		{"unsupported", struct{ A int }{1}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Stringify(tt.in)
			if tt.wantErr {
				require.Error(t, err, fmt.Sprintf("value %#v", tt.in))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
