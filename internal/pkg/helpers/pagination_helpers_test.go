package helpers

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, 5, 1, 5},
		{2, MaxPageSize, 2, MaxPageSize},
		{2, MaxPageSize + 1, 2, DefaultPageSize},
		{math.MaxInt, 10, MaxPage, 10},
	}
	for _, tc := range cases {
		page, size := NormalizePage(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Errorf("NormalizePage(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, page, size, tc.wantPage, tc.wantSize)
		}
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	if offset != 40 || limit != 20 {
		t.Fatalf("offset, limit = %d, %d", offset, limit)
	}

	offset, _ = CalculateOffsetLimit(4611686018427387905, 10)
	if want := uint64(MaxPage-1) * 10; offset != want {
		t.Fatalf("offset for an oversized page = %d, want %d", offset, want)
	}
}

func TestCalculateSliceIndices(t *testing.T) {
	cases := []struct {
		page, size, total int
		start, end        int
	}{
		{1, 10, 25, 0, 10},
		{3, 10, 25, 20, 25},
		{4, 10, 25, 25, 25},
		{1, 10, 0, 0, 0},
		{4611686018427387905, 10, 5, 5, 5},
		{math.MaxInt, MaxPageSize, 250, 250, 250},
	}
	for _, tc := range cases {
		start, end := CalculateSliceIndices(tc.page, tc.size, tc.total)
		if start != tc.start || end != tc.end {
			t.Errorf("CalculateSliceIndices(%d, %d, %d) = %d, %d; want %d, %d",
				tc.page, tc.size, tc.total, start, end, tc.start, tc.end)
		}
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(21, 2, 10)
	if info.TotalPages != 3 || info.CurrentPage != 2 || info.PageSize != 10 || info.TotalItems != 21 {
		t.Fatalf("info = %+v", info)
	}
	if empty := NewPaginationInfo(0, 1, 10); empty.TotalPages != 0 {
		t.Fatalf("empty result has %d pages", empty.TotalPages)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string][2]int{
		"":                {1, DefaultPageSize},
		"?page=4&size=25": {4, 25},
		"?page=x&size=y":  {1, DefaultPageSize},
		"?page=-1&size=0": {1, DefaultPageSize},
		"?size=1000":      {1, DefaultPageSize},
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/avatar"+query, nil)

		page, size := ParsePaginationParams(c)
		if page != want[0] || size != want[1] {
			t.Errorf("query %q: page, size = %d, %d; want %v", query, page, size, want)
		}
	}
}

func TestLikePatterns(t *testing.T) {
	if got := ContainsPattern(`50%_a\b`); got != `%50\%\_a\\b%` {
		t.Fatalf("ContainsPattern = %q", got)
	}
	if got := PrefixPattern("A"); got != "A%" {
		t.Fatalf("PrefixPattern = %q", got)
	}
}

func TestNullInt64Conversions(t *testing.T) {
	if n := NullInt64FromPtr(nil); n.Valid {
		t.Fatal("nil pointer must be NULL")
	}
	id := int64(7)
	back := PtrFromNullInt64(NullInt64FromPtr(&id))
	if back == nil || *back != 7 || back == &id {
		t.Fatalf("round trip = %v", back)
	}
}

func TestDurationOr(t *testing.T) {
	cases := map[string]time.Duration{
		"15s":   15 * time.Second,
		"":      time.Minute,
		"later": time.Minute,
		"-5s":   time.Minute,
	}
	for in, want := range cases {
		if got := DurationOr(in, time.Minute); got != want {
			t.Errorf("DurationOr(%q) = %v, want %v", in, got, want)
		}
	}
}
