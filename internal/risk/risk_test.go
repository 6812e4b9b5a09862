package risk

import "testing"

func TestBucketThresholds(t *testing.T) {
	cases := map[float64]string{
		0:   BucketLow,
		20:  BucketLow,
		21:  BucketMedium,
		50:  BucketMedium,
		51:  BucketHigh,
		75:  BucketHigh,
		76:  BucketCritical,
		200: BucketCritical,
	}
	for score, want := range cases {
		if got := Bucket(score); got != want {
			t.Errorf("Bucket(%v) = %q, want %q", score, got, want)
		}
	}
}
