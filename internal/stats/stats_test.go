package stats

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/table"
)

const reconciled = `住民コード_conv,自治会コード名,小学校区コード名,生年月日_year,認定状態
1,中央区本町,本町小学校,1940,認定済み
2,中央区本町,本町小学校,1950,未認定
3,中央区栄町,栄小学校,1990,未認定
4,北区緑町,,1944,認定済み
5,,,1980,未認定
6,北区緑町,栄小学校,1930,対象外
`

var opts = Options{ElderlyAge: 65, LateElderlyAge: 75, CertifiedLabel: "認定済み", ExcludedLabel: "対象外"}

func read(t *testing.T, s string) *table.Table {
	t.Helper()
	tbl, _, err := table.ReadCSV(strings.NewReader(s), table.ReadOptions{Log: zerolog.Nop()})
	require.NoError(t, err)
	return tbl
}

func find(rates []AreaRate, kind, area string) AreaRate {
	for _, r := range rates {
		if r.Kind == kind && r.Area == area {
			return r
		}
	}
	return AreaRate{}
}

func TestRates(t *testing.T) {
	rates, err := Rates(read(t, reconciled), 2020, opts)
	require.NoError(t, err)

	total := find(rates, KindTotal, "")
	assert.Equal(t, 5, total.Population, "excluded residents are not counted")
	assert.Equal(t, 3, total.Elderly)
	assert.Equal(t, 2, total.LateElderly)
	assert.Equal(t, 2, total.Certified)
	assert.InDelta(t, 0.6, total.AgingRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, total.CertificationRate, 1e-9)

	chuo := find(rates, KindDistrict, "中央区")
	if diff := cmp.Diff(AreaRate{
		Year: 2020, Kind: KindDistrict, Area: "中央区",
		Population: 3, Elderly: 2, LateElderly: 1, Certified: 1,
		AgingRate: 2.0 / 3.0, CertificationRate: 0.5, LateElderlyRate: 0.5,
	}, chuo); diff != "" {
		t.Errorf("中央区 mismatch (-want +got):\n%s", diff)
	}

	sakae := find(rates, KindSchoolZone, "栄小")
	assert.Equal(t, 1, sakae.Population)
	assert.Zero(t, sakae.CertificationRate, "zero elderly gives a zero rate")

	// Kind order, then area name.
	assert.Equal(t, KindTotal, rates[0].Kind)
	assert.Equal(t, KindDistrict, rates[1].Kind)
	assert.Equal(t, KindSchoolZone, rates[len(rates)-1].Kind)
}

func TestRates_MissingStatusColumn(t *testing.T) {
	_, err := Rates(read(t, "生年月日_year\n1950\n"), 2020, opts)
	var uc *table.UnknownColumnError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, model.ColStatus, uc.Column)
}

func TestTable(t *testing.T) {
	tbl := Table([]AreaRate{{Year: 2020, Kind: KindTotal, Population: 4, Elderly: 1, AgingRate: 0.25}})
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "0.25", tbl.Value(0, "aging_rate"))
	assert.Equal(t, "4", tbl.Value(0, "population"))
}

func TestDiscoverYears(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"認定状態・総人口2019.csv", "2021/認定状態・総人口2021.csv", "認定状態・総人口.csv", "other2020.csv"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(reconciled), 0o644))
	}

	files, err := DiscoverYears(dir, "")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, 2021, files[0].Year)
	assert.Equal(t, 2019, files[1].Year)

	rates, err := Collect(context.Background(), files, table.ReadOptions{Log: zerolog.Nop()}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2021, rates[0].Year)
	assert.Equal(t, 2019, rates[len(rates)-1].Year)
	assert.Equal(t, 3, find(rates, KindTotal, "").Elderly, "first total is the 2021 one")
}

const certified = `住民コード_conv,生年月日_year,認定状態,二次判定要介護度名
1,1940,認定済み,要介護１
2,1945,認定済み,要支援２
3,1950,認定済み,要介護１
4,1960,認定済み,要介護３
5,1938,未認定,要介護２
6,1942,認定済み,非該当
7,1944,認定済み,
`

func TestCareLevels(t *testing.T) {
	levels, err := CareLevels(read(t, certified), 2020, opts)
	require.NoError(t, err)

	want := []CareLevel{
		{Year: 2020, Level: "要支援２", Count: 1, Share: 1.0 / 3.0},
		{Year: 2020, Level: "要介護１", Count: 2, Share: 2.0 / 3.0},
	}
	if diff := cmp.Diff(want, levels); diff != "" {
		t.Errorf("care levels mismatch (-want +got):\n%s", diff)
	}

	tbl := CareLevelsTable(levels)
	assert.Equal(t, "0.6667", tbl.Value(1, "share"))
	assert.Equal(t, "要介護１", tbl.Value(1, "care_level"))
}

func TestCareLevels_MissingLevelColumn(t *testing.T) {
	_, err := CareLevels(read(t, reconciled), 2020, opts)
	var uc *table.UnknownColumnError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, model.ColCareLevelName, uc.Column)
}

func TestSortCareLevels(t *testing.T) {
	levels := []CareLevel{
		{Year: 2019, Level: "要介護５"},
		{Year: 2020, Level: "その他"},
		{Year: 2020, Level: "要介護２"},
		{Year: 2020, Level: "要支援１"},
	}
	SortCareLevels(levels)
	var got []string
	for _, l := range levels {
		got = append(got, l.Level)
	}
	assert.Equal(t, []string{"要支援１", "要介護２", "その他", "要介護５"}, got)
}

func TestCollectCareLevels(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"認定状態・総人口2020.csv", "認定状態・総人口2021.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(certified), 0o644))
	}
	files, err := DiscoverYears(dir, "")
	require.NoError(t, err)

	levels, err := CollectCareLevels(context.Background(), files, table.ReadOptions{Log: zerolog.Nop()}, opts)
	require.NoError(t, err)
	require.Len(t, levels, 4)
	assert.Equal(t, 2021, levels[0].Year)
	assert.Equal(t, "要支援２", levels[0].Level)
	assert.Equal(t, 2020, levels[3].Year)
	assert.Equal(t, 2, levels[3].Count)
}
