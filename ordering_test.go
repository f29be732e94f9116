package gowindow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Direction_Valid_And_ForOperator(t *testing.T) {
	tests := []struct {
		name     string
		in       Direction
		valid    bool
		operator Operator
		panicExp bool
	}{
		{"ASC valid maps to GT", DirectionASC, true, OperatorGT, false},
		{"DESC valid maps to LT", DirectionDESC, true, OperatorLT, false},
		{"lowercase is not valid", Direction("asc"), false, "", true},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.valid {
			t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
		}
		if !tt.panicExp {
			if got := tt.in.ForOperator(); got != tt.operator {
				t.Errorf("%s: ForOperator=%v want %v", tt.name, got, tt.operator)
			}
		} else {
			require.Panics(t, func() { tt.in.ForOperator() })
		}
	}
}

func Test_ParseDirection(t *testing.T) {
	d, err := ParseDirection(" desc ")
	require.NoError(t, err)
	require.Equal(t, DirectionDESC, d)

	_, err = ParseDirection("sideways")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func Test_NewField(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		ok       bool
		wantName string
	}{
		{"plain", "id", true, "id"},
		{"qualified", "t.created_at", true, "created_at"},
		{"quoted", "`order`", true, "order"},
		{"quoted and qualified", `"users"."created_at"`, true, "created_at"},
		{"backticks and qualified", "`db`.`users`.`id`", true, "id"},
		{"empty", "", false, ""},
		{"qualifier only", "users.", false, ""},
		{"quotes only", "``", false, ""},
		{"space", "id desc", false, ""},
		{"injection", "id; DROP TABLE users", false, ""},
		{"comment", "id--", false, ""},
		{"single quote", "'id'", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewField(tt.column)
			if (err == nil) != tt.ok {
				t.Fatalf("%s: ok=%v err=%v", tt.name, tt.ok, err)
			}
			if !tt.ok {
				return
			}
			if f.Column() != tt.column {
				t.Errorf("%s: column=%q want %q", tt.name, f.Column(), tt.column)
			}
			if f.Name() != tt.wantName {
				t.Errorf("%s: name=%q want %q", tt.name, f.Name(), tt.wantName)
			}
		})
	}

	require.Panics(t, func() { MustField("a b") })
}

func Test_Sort_validate(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		ok   bool
	}{
		{"zero field", Sort{Direction: DirectionASC}, false},
		{"invalid direction", Sort{Field: MustField("id"), Direction: "bad"}, false},
		{"valid", Asc(MustField("id")), true},
	}
	for _, tt := range tests {
		err := tt.sort.validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: expected ErrInvalidRequest, got %v", tt.name, err)
		}
	}
}

func Test_Sort_ToSQL(t *testing.T) {
	require.Equal(t, "t.id ASC", Asc(MustField("t.id")).ToSQL())
	require.Equal(t, "created_at DESC", Desc(MustField("created_at")).ToSQL())
}

func Test_FieldSet_ParseSort(t *testing.T) {
	fields := MustFieldSet(ColumnMapping{
		"id":   "t.id",
		"name": "t.name",
	})

	tests := []struct {
		name string
		in   string
		ok   bool
		want Sort
	}{
		{"empty", "", false, Sort{}},
		{"too many parts", "id asc nulls", false, Sort{}},
		{"unknown alias", "idx asc", false, Sort{}},
		{"bad direction", "id up", false, Sort{}},
		{"default asc", "id", true, Asc(MustField("t.id"))},
		{"valid asc", "id asc", true, Asc(MustField("t.id"))},
		{"valid desc", "name DESC", true, Desc(MustField("t.name"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fields.ParseSort(tt.in)
			if (err == nil) != tt.ok {
				t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
				return
			}
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_FieldSet_Lookup_ClosestAlias(t *testing.T) {
	fields := MustFieldSet(ColumnMapping{
		"id":         "id",
		"created_at": "created_at",
	})

	_, err := fields.Lookup("createdAt")
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Contains(t, err.Error(), "closest: 'created_at'")

	require.Equal(t, []ColumnAlias{"created_at", "id"}, fields.Aliases())
}

func Test_NewFieldSet_RejectsForbiddenColumn(t *testing.T) {
	_, err := NewFieldSet(ColumnMapping{"id": "id) OR (1=1"})
	require.Error(t, err)
}

func Test_closestAlias(t *testing.T) {
	aliases := []ColumnAlias{"id", "name", "email", "created_at", "updated_at"}
	tests := []struct {
		name string
		in   ColumnAlias
		out  ColumnAlias
	}{
		{"closest to id", "idx", "id"},
		{"upper case", "ID", "id"},
		{"closest to name", "nme", "name"},
		{"swapped letters", "emial", "email"},
		{"closest to created_at", "createdat", "created_at"},
		{"prefix", "updated", "updated_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closestAlias(tt.in, aliases); got != tt.out {
				t.Errorf("%s: got %s want %s", tt.name, got, tt.out)
			}
		})
	}
}
