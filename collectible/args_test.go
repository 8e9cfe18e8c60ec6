package collectible

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHoursToSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours   string
		want    int64
		wantErr bool
	}{
		{hours: "2", want: 7200},
		{hours: "0", want: 0},
		{hours: " 24 ", want: 86400},
		{hours: "1.5", want: 5400},
		{hours: "0.1", want: 360},
		{hours: "0.0001", wantErr: true},
		{hours: "-1", wantErr: true},
		{hours: "two", wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.hours, func(t *testing.T) {
			t.Parallel()
			got, err := HoursToSeconds(tc.hours)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Int64())
		})
	}
}

func TestParseUint(t *testing.T) {
	t.Parallel()

	n, err := ParseUint("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	require.Equal(t, 256, n.BitLen())

	for _, s := range []string{"", "1.5", "-3", "0x10", "abc"} {
		_, err := ParseUint(s)
		require.ErrorIs(t, err, ErrInvalidInput, s)
	}
}

func TestAuctionHasBids(t *testing.T) {
	t.Parallel()

	require.False(t, Auction{}.HasBids())
	a := Auction{HighestBidder: [20]byte{19: 1}}
	require.True(t, a.HasBids())
}
