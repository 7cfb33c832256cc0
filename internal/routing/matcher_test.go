package routing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func i64(v int64) *int64 { return &v }
func str(v string) *string { return &v }
func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func leadWithAreas(areas ...Area) Lead {
	return Lead{ID: 1, TenantID: 1, PreferredAreas: areas}
}

func TestMatches_EmptyConditionsMatchEverything(t *testing.T) {
	if !Matches(Lead{ID: 1, TenantID: 1}, Conditions{}) {
		t.Fatalf("empty conditions should match")
	}
}

func TestMatches_ScalarFields(t *testing.T) {
	lead := Lead{ID: 1, TenantID: 1, ActivitySourceID: i64(3), PropertyType: "apartment", InterestType: "buy"}

	cases := []struct {
		name string
		c    Conditions
		want bool
	}{
		{"source match", Conditions{ActivitySourceID: i64(3)}, true},
		{"source mismatch", Conditions{ActivitySourceID: i64(4)}, false},
		{"property match", Conditions{PropertyType: str("apartment")}, true},
		{"property mismatch", Conditions{PropertyType: str("villa")}, false},
		{"interest mismatch", Conditions{InterestType: str("rent")}, false},
		{"all set", Conditions{ActivitySourceID: i64(3), PropertyType: str("apartment"), InterestType: str("buy")}, true},
	}
	for _, tc := range cases {
		if got := Matches(lead, tc.c); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	if Matches(Lead{ID: 2, TenantID: 1}, Conditions{ActivitySourceID: i64(3)}) {
		t.Fatalf("lead without source should not match a source condition")
	}
}

func TestMatches_PriceBounds(t *testing.T) {
	lead := Lead{ID: 1, TenantID: 1, MinPrice: dec("150000"), MaxPrice: dec("300000")}

	if !Matches(lead, Conditions{MinPrice: dec("100000"), MaxPrice: dec("400000")}) {
		t.Fatalf("lead inside range should match")
	}
	if !Matches(lead, Conditions{MinPrice: dec("150000"), MaxPrice: dec("300000")}) {
		t.Fatalf("bounds are inclusive")
	}
	if Matches(lead, Conditions{MinPrice: dec("200000")}) {
		t.Fatalf("lead floor below rule floor should not match")
	}
	if Matches(lead, Conditions{MaxPrice: dec("250000")}) {
		t.Fatalf("lead ceiling above rule ceiling should not match")
	}

	// nil prices compare as zero
	bare := Lead{ID: 2, TenantID: 1}
	if Matches(bare, Conditions{MinPrice: dec("1")}) {
		t.Fatalf("missing lead floor should fail a positive min_price")
	}
	if !Matches(bare, Conditions{MaxPrice: dec("1")}) {
		t.Fatalf("missing lead ceiling should pass max_price")
	}
}

func TestMatches_Areas(t *testing.T) {
	lead := leadWithAreas(
		Area{ID: 10, Name: "Downtown", State: State{ID: 7, Name: "Springfield"}},
		Area{ID: 11, Name: "Harbor", State: State{ID: 8, Name: "Shelbyville"}},
	)

	if !Matches(lead, Conditions{AreaIDs: []int64{99, 11}}) {
		t.Fatalf("any shared area should match")
	}
	if Matches(lead, Conditions{AreaIDs: []int64{99}}) {
		t.Fatalf("disjoint areas should not match")
	}
	if !Matches(lead, Conditions{City: str("Shelbyville")}) {
		t.Fatalf("city of any area should match")
	}
	if Matches(lead, Conditions{City: str("Capital City")}) {
		t.Fatalf("unknown city should not match")
	}
	if !Matches(lead, Conditions{StateID: i64(7)}) {
		t.Fatalf("state of any area should match")
	}
	if Matches(lead, Conditions{StateID: i64(9)}) {
		t.Fatalf("unknown state should not match")
	}

	if Matches(leadWithAreas(), Conditions{AreaIDs: []int64{10}}) {
		t.Fatalf("lead without areas should fail area conditions")
	}
	if Matches(leadWithAreas(), Conditions{City: str("Springfield")}) {
		t.Fatalf("lead without areas should fail city conditions")
	}
}

func TestMatches_AllConditionsMustHold(t *testing.T) {
	lead := leadWithAreas(Area{ID: 10, State: State{ID: 7, Name: "Springfield"}})
	lead.PropertyType = "apartment"

	c := Conditions{PropertyType: str("apartment"), AreaIDs: []int64{12}}
	if Matches(lead, c) {
		t.Fatalf("one failing condition should reject the lead")
	}
}

func TestMatches_BudgetAndAreaExamples(t *testing.T) {
	lead := Lead{
		ID: 1, TenantID: 1,
		MinPrice:       dec("50000"),
		MaxPrice:       dec("100000"),
		PreferredAreas: []Area{{ID: 7}},
	}

	cases := []struct {
		raw  string
		want bool
	}{
		{`{"area_ids":[7,9]}`, true},
		{`{"area_ids":[8]}`, false},
		{`{"min_price":60000}`, false},
		{`{"max_price":90000}`, false},
		{`{"property_type":""}`, true},
	}
	for _, tc := range cases {
		c, err := ParseConditions(tc.raw)
		if err != nil {
			t.Fatalf("%s: parse: %v", tc.raw, err)
		}
		if got := Matches(lead, c); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}
