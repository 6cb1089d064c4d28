package dataset_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/gridiron/internal/adapters/dataset"
	"github.com/okian/gridiron/internal/domain/model"
)

func TestDecodeCSV(t *testing.T) {
	plays, rejects, err := dataset.DecodeCSV(strings.NewReader(season2020))
	require.NoError(t, err)

	require.Len(t, plays, 4)
	assert.Equal(t, 3, rejects.Total())
	assert.Equal(t, 1, rejects[dataset.RejectInvalidEPA])
	assert.Equal(t, 1, rejects[dataset.RejectInvalidWP])
	assert.Equal(t, 1, rejects[dataset.RejectMissingKey])

	first := plays[0]
	assert.Equal(t, 2020, first.Season)
	assert.Equal(t, 1, first.Week)
	assert.Equal(t, "2020_01_HOU_KC", first.GameID)
	assert.Equal(t, 1, first.DriveID)
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, "HOU", first.PosTeam)
	assert.Equal(t, "KC", first.HomeTeam)
	require.NotNil(t, first.EPA)
	assert.InDelta(t, 0.5, *first.EPA, 1e-9)
	require.NotNil(t, first.SpreadLine)
	assert.Equal(t, 9.5, *first.SpreadLine)

	// The end-of-quarter row keeps its missing values as nil, and "2.0" is a valid drive.
	marker := plays[3]
	assert.Equal(t, 2, marker.DriveID)
	assert.Nil(t, marker.EPA)
	assert.Nil(t, marker.WP)
	assert.Nil(t, marker.Down)
	assert.Nil(t, marker.YardsGained)
	assert.Empty(t, marker.PlayType)
}

func TestDecodeCSVAliases(t *testing.T) {
	in := "season,week,game,drive_id,seq,team,yards,epa,wp_before,wp_post\n" +
		"2019,3,2019_03_NE_NYJ,4,17,NE,12,0.8,0.61,0.66\n"
	plays, rejects, err := dataset.DecodeCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, plays, 1)
	assert.Zero(t, rejects.Total())

	p := plays[0]
	assert.Equal(t, "2019_03_NE_NYJ", p.GameID)
	assert.Equal(t, 4, p.DriveID)
	assert.Equal(t, 17, p.Sequence)
	assert.Equal(t, "NE", p.PosTeam)
	assert.Equal(t, 12.0, *p.YardsGained)
	assert.Equal(t, 0.61, *p.WP)
	assert.Equal(t, 0.66, *p.PostWP())
}

func TestDecodeCSVErrors(t *testing.T) {
	_, _, err := dataset.DecodeCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, dataset.ErrDecode)

	_, _, err = dataset.DecodeCSV(strings.NewReader("season,week,drive,play_id\n2020,1,1,1\n"))
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
	assert.Contains(t, err.Error(), "game_id")

	_, _, err = dataset.DecodeCSV(strings.NewReader(header + "1,\"unterminated\n"))
	assert.ErrorIs(t, err, dataset.ErrDecode)
}

func TestDecodeCSVShortRow(t *testing.T) {
	in := header + "1,2020_01_HOU_KC,KC,HOU,2020\n"
	plays, rejects, err := dataset.DecodeCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, plays)
	assert.Equal(t, 1, rejects[dataset.RejectShortRow])
}

func TestDecoderCompressedFormats(t *testing.T) {
	dec, err := dataset.NewDecoder()
	require.NoError(t, err)
	defer dec.Close()

	for _, tc := range []struct {
		format dataset.Format
		data   []byte
	}{
		{dataset.FormatCSV, []byte(season2021)},
		{dataset.FormatCSVGzip, gz(t, season2021)},
		{dataset.FormatCSVZstd, zst(t, season2021)},
	} {
		t.Run(string(tc.format), func(t *testing.T) {
			plays, rejects, err := dec.Decode(tc.format, tc.data)
			require.NoError(t, err)
			assert.Len(t, plays, 2)
			assert.Zero(t, rejects.Total())
		})
	}

	_, _, err = dec.Decode(dataset.FormatCSVGzip, []byte("not gzip"))
	assert.ErrorIs(t, err, dataset.ErrDecode)
	_, _, err = dec.Decode(dataset.FormatCSVZstd, []byte("not zstd"))
	assert.ErrorIs(t, err, dataset.ErrDecode)
	_, _, err = dec.Decode(dataset.FormatParquet, []byte("not parquet"))
	assert.ErrorIs(t, err, dataset.ErrDecode)
}

func TestParquetRoundTrip(t *testing.T) {
	plays, _, err := dataset.DecodeCSV(strings.NewReader(season2020))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dataset.EncodeParquet(&buf, plays))

	dec, err := dataset.NewDecoder()
	require.NoError(t, err)
	defer dec.Close()

	got, rejects, err := dec.Decode(dataset.FormatParquet, buf.Bytes())
	require.NoError(t, err)
	assert.Zero(t, rejects.Total())
	require.Len(t, got, len(plays))
	assert.Equal(t, plays[0].GameID, got[0].GameID)
	assert.Equal(t, *plays[0].EPA, *got[0].EPA)
	assert.Nil(t, got[3].EPA)
	assert.Nil(t, got[3].Down)
}

func TestParquetRejectsInvalidRows(t *testing.T) {
	rows := []model.Play{
		{Season: 2020, Week: 1, GameID: "g", DriveID: 1, Sequence: 1, WP: model.Float(0.5)},
		{Season: 2020, Week: 1, GameID: "", DriveID: 1, Sequence: 2},
		{Season: 2020, Week: 1, GameID: "g", DriveID: 1, Sequence: 3, WP: model.Float(-0.1)},
	}
	var buf bytes.Buffer
	require.NoError(t, dataset.EncodeParquet(&buf, rows))

	got, rejects, err := dataset.DecodeParquet(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, rejects[dataset.RejectMissingKey])
	assert.Equal(t, 1, rejects[dataset.RejectInvalidWP])
}

func TestFormats(t *testing.T) {
	f, err := dataset.ParseFormat(".csv.zst")
	require.NoError(t, err)
	assert.Equal(t, dataset.FormatCSVZstd, f)

	_, err = dataset.ParseFormat("xlsx")
	assert.Error(t, err)

	assert.Equal(t, "nfl_2020.parquet", dataset.FileName(2020, dataset.FormatParquet))
}
