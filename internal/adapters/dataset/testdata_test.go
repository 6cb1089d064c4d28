package dataset_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

const header = "play_id,game_id,home_team,away_team,season,week,posteam,defteam,drive,qtr,down,ydstogo,yardline_100,play_type,yards_gained,desc,epa,wpa,wp,total_home_score,total_away_score,spread_line\n"

// season2020 has four valid plays and three malformed ones.
const season2020 = header +
	"1,2020_01_HOU_KC,KC,HOU,2020,1,HOU,KC,1,1,1,10,75,pass,5,short pass,0.5,0.01,0.45,0,0,9.5\n" +
	"2,2020_01_HOU_KC,KC,HOU,2020,1,HOU,KC,1,1,2,5,70,run,-2,run left,-0.2,-0.02,0.46,0,0,9.5\n" +
	"3,2020_01_HOU_KC,KC,HOU,2020,1,HOU,KC,1,1,3,7,72,pass,20,deep pass,1.1,0.04,0.44,0,0,9.5\n" +
	"4,2020_01_HOU_KC,KC,HOU,2020,1,KC,HOU,2.0,1,NA,NA,NA,,NA,END QUARTER,NA,NA,NA,0,0,9.5\n" +
	"5,2020_01_HOU_KC,KC,HOU,2020,1,KC,HOU,2,1,1,10,75,pass,3,bad epa,abc,0,0.5,0,0,9.5\n" +
	"6,2020_01_HOU_KC,KC,HOU,2020,1,KC,HOU,2,1,1,10,75,pass,3,bad wp,0.1,0,1.5,0,0,9.5\n" +
	"7,2020_01_HOU_KC,KC,HOU,2020,1,KC,HOU,,1,1,10,75,pass,3,no drive,0.1,0,0.5,0,0,9.5\n"

const season2021 = header +
	"10,2021_01_CLE_KC,KC,CLE,2021,1,CLE,KC,1,1,1,10,75,run,4,run,0.3,0.02,0.5,0,0,6\n" +
	"11,2021_01_CLE_KC,KC,CLE,2021,1,CLE,KC,1,1,2,6,71,pass,6,pass,0.4,0.03,0.52,0,0,6\n"

func gz(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zst(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll([]byte(s), nil)
}

func memBucket(t *testing.T, files map[string][]byte) *blob.Bucket {
	t.Helper()
	b := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = b.Close() })
	for k, v := range files {
		require.NoError(t, b.WriteAll(context.Background(), k, v, nil))
	}
	return b
}
