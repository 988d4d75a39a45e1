// mkfixture writes a synthetic residency ledger and certification ledger for
// manual runs. Output is deterministic for a given seed.
// Usage: go run ./cmd/mkfixture --residents 5000 --seed 1 --ledger testdata/ledger.csv --certs testdata/certs.csv
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/table"
)

var (
	districts = []string{"中央区", "北区", "南区", "東区", "西区"}
	towns     = []string{"本町", "栄町", "緑町", "旭町", "若葉町"}
	schools   = []string{"本町小学校", "栄小学校", "緑小学校", "旭小学校"}
	careNames = []string{"要支援１", "要支援２", "要介護１", "要介護２", "要介護３", "要介護４", "要介護５"}

	moveReasons = []string{"転居", "転居", "世帯変更", "転出", "国外転出", "職権消除", "転入通知未着"}
)

func main() {
	residents := flag.Int("residents", 1000, "number of residents")
	seed := flag.Uint64("seed", 1, "random seed")
	ledgerPath := flag.String("ledger", "testdata/ledger.csv", "output residency ledger")
	certsPath := flag.String("certs", "testdata/certs.csv", "output certification ledger")
	year := flag.Int("year", 2020, "last fiscal year covered by events")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	ledger := table.MustNew([]string{
		model.ColResidentID, model.ColSequenceNo, model.ColEventDate, model.ColEventReason,
		model.ColExitDate, model.ColDeathDate, model.ColBecameResidentDate,
		model.ColLocality, model.ColSchoolZoneName, model.ColBirthYear,
	}, []table.Dtype{
		table.Int64, table.Int64, table.String, table.String,
		table.String, table.String, table.String,
		table.String, table.String, table.NullableInt64,
	})
	certs := table.MustNew([]string{
		model.ColResidentID, model.ColApplicationDate, model.ColDecisionDate, model.ColValidMonths,
		model.ColCareLevel, model.ColCareLevelName, "一次判定日", "取消日",
	}, []table.Dtype{
		table.Int64, table.String, table.String, table.NullableInt64,
		table.NullableInt64, table.String, table.String, table.String,
	})

	var seq int64
	var events, certRows int
	for i := 0; i < *residents; i++ {
		id := int64(100000 + i)
		birth := 1920 + rng.IntN(95)
		locality := districts[rng.IntN(len(districts))] + towns[rng.IntN(len(towns))]
		school := schools[rng.IntN(len(schools))]
		movedIn := randomDate(rng, max(birth, 1990), *year)

		appendEvent := func(date model.Date, reason string, exit, death model.Date) {
			seq++
			events++
			must(ledger.Append([]string{
				strconv.FormatInt(id, 10), strconv.FormatInt(seq, 10), date.Compact(), reason,
				exit.Compact(), death.Compact(), movedIn.Compact(), locality, school, strconv.Itoa(birth),
			}))
		}
		appendEvent(movedIn, "転入", 0, 0)

		// Later events: moves, departures and deaths.
		last := movedIn
		for n := rng.IntN(3); n > 0 && last.Year() < *year; n-- {
			next := randomDate(rng, last.Year(), *year)
			if next <= last {
				continue
			}
			reason := moveReasons[rng.IntN(len(moveReasons))]
			var exit model.Date
			if reason == "転出" || reason == "国外転出" {
				exit = next
			}
			appendEvent(next, reason, exit, 0)
			last = next
		}
		if birth < 1945 && rng.IntN(10) == 0 {
			death := randomDate(rng, last.Year(), *year)
			appendEvent(death, "死亡", 0, death)
		}

		// Elderly residents accumulate successive certifications.
		if *year-birth >= 65 && rng.IntN(3) == 0 {
			decision := randomDate(rng, *year-3, *year-1)
			for k := rng.IntN(3) + 1; k > 0; k-- {
				application := decision.Time().AddDate(0, 0, -rng.IntN(45))
				months := []int{6, 12, 24, 36, 48}[rng.IntN(5)]
				level := rng.IntN(len(careNames))
				certRows++
				must(certs.Append([]string{
					strconv.FormatInt(id, 10), model.DateOf(application).Compact(), decision.Compact(),
					strconv.Itoa(months), strconv.Itoa(level + 1), careNames[level],
					decision.Compact(), "",
				}))
				decision = model.DateOf(decision.Time().AddDate(0, months, 0))
			}
		}
	}

	must(table.WriteFile(*ledgerPath, ledger))
	must(table.WriteFile(*certsPath, certs))
	fmt.Printf("Wrote %d residents (%d events) to %s and %d certifications to %s\n",
		*residents, events, *ledgerPath, certRows, *certsPath)
}

func randomDate(rng *rand.Rand, fromYear, toYear int) model.Date {
	if toYear < fromYear {
		toYear = fromYear
	}
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	return model.DateOf(start.AddDate(0, 0, rng.IntN(days+1)))
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkfixture: %v\n", err)
		os.Exit(1)
	}
}
