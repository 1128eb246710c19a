package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/flipside/reversi/stats"
)

var ErrEmptyLog = errors.New("log file has no games")

// PlayerSummary holds the results of one AI over a log file.
type PlayerSummary struct {
	Name         string  `yaml:"name"`
	Wins         int     `yaml:"wins"`
	WinRate      float64 `yaml:"winRate"`
	GamesAsBlack int     `yaml:"gamesAsBlack"`
	WinsAsBlack  int     `yaml:"winsAsBlack"`
	MeanDiscs    float64 `yaml:"meanDiscs"`
}

// Summary is what AnalyzeLogFile finds. Disc margins are from the first
// player's point of view; when an AI played itself, that is black's.
type Summary struct {
	Games     int             `yaml:"games"`
	Draws     int             `yaml:"draws"`
	BlackWins int             `yaml:"blackWins"`
	Players   []PlayerSummary `yaml:"players"`

	MarginMean   float64 `yaml:"marginMean"`
	MarginStdev  float64 `yaml:"marginStdev"`
	MarginMedian float64 `yaml:"marginMedian"`
	MarginCI99   float64 `yaml:"marginCI99"`
	MarginMin    float64 `yaml:"marginMin"`
	MarginMax    float64 `yaml:"marginMax"`
	MeanPlies    float64 `yaml:"meanPlies"`
	MeanPasses   float64 `yaml:"meanPasses"`

	margins []float64
}

type gameRecord struct {
	black, white           string
	blackDiscs, whiteDiscs int
	plies, passes          int
}

func parseRecord(record []string) (gameRecord, error) {
	if len(record) != 8 {
		return gameRecord{}, fmt.Errorf("expected 8 fields, got %d", len(record))
	}
	nums := make([]int, 4)
	for i, idx := range []int{3, 4, 6, 7} {
		n, err := strconv.Atoi(record[idx])
		if err != nil {
			return gameRecord{}, err
		}
		nums[i] = n
	}
	return gameRecord{
		black: record[1], white: record[2],
		blackDiscs: nums[0], whiteDiscs: nums[1],
		plies: nums[2], passes: nums[3],
	}, nil
}

func readRecords(r io.Reader) ([]gameRecord, error) {
	cr := csv.NewReader(r)
	var recs []gameRecord
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		rec, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(recs)+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// AnalyzeLogFile analyzes the given autoplay CSV file and computes a bunch
// of statistics.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Analyze(file)
}

// Analyze is AnalyzeLogFile for an already opened log.
func Analyze(r io.Reader) (*Summary, error) {
	recs, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrEmptyLog
	}

	p1Name, p2Name := recs[0].black, recs[0].white
	selfPlay := p1Name == p2Name
	players := map[string]*PlayerSummary{
		p1Name: {Name: p1Name},
		p2Name: {Name: p2Name},
	}
	discStats := map[string]*stats.Statistic{p1Name: {}, p2Name: {}}

	margin := &stats.Statistic{}
	s := &Summary{Games: len(recs)}
	for _, rec := range recs {
		black, ok := players[rec.black]
		if !ok {
			return nil, fmt.Errorf("unexpected player %q in log", rec.black)
		}
		white, ok := players[rec.white]
		if !ok {
			return nil, fmt.Errorf("unexpected player %q in log", rec.white)
		}
		black.GamesAsBlack++
		discStats[rec.black].Push(float64(rec.blackDiscs))
		discStats[rec.white].Push(float64(rec.whiteDiscs))
		switch {
		case rec.blackDiscs > rec.whiteDiscs:
			black.Wins++
			black.WinsAsBlack++
			s.BlackWins++
		case rec.whiteDiscs > rec.blackDiscs:
			white.Wins++
		default:
			s.Draws++
		}

		m := float64(rec.blackDiscs - rec.whiteDiscs)
		if !selfPlay && rec.black != p1Name {
			m = -m
		}
		margin.Push(m)
		s.margins = append(s.margins, m)
	}
	if selfPlay {
		// Both colors share one entry; report black's wins.
		players[p1Name].Wins = s.BlackWins
		players[p1Name].WinsAsBlack = s.BlackWins
	}

	names := []string{p1Name}
	if !selfPlay {
		names = append(names, p2Name)
	}
	s.Players = lo.Map(names, func(n string, _ int) PlayerSummary {
		p := *players[n]
		p.WinRate = float64(p.Wins) / float64(s.Games)
		p.MeanDiscs = discStats[n].Mean()
		return p
	})

	sorted := slices.Clone(s.margins)
	slices.Sort(sorted)
	s.MarginMean = margin.Mean()
	s.MarginStdev = margin.Stdev()
	s.MarginMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.MarginCI99 = margin.ConfidenceInterval(99)
	s.MarginMin = margin.Min()
	s.MarginMax = margin.Max()
	s.MeanPlies = float64(lo.SumBy(recs, func(r gameRecord) int { return r.plies })) / float64(s.Games)
	s.MeanPasses = float64(lo.SumBy(recs, func(r gameRecord) int { return r.passes })) / float64(s.Games)
	return s, nil
}

// Histogram buckets the disc margins.
func (s *Summary) Histogram(bins int) histogram.Histogram {
	return histogram.Hist(bins, s.margins)
}

func (s *Summary) String() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "Games played: %d\n", s.Games)
	for _, p := range s.Players {
		fmt.Fprintf(&ss, "%v wins: %d (%.3f%%), as black %d of %d, mean discs %.2f\n",
			p.Name, p.Wins, 100.0*p.WinRate, p.WinsAsBlack, p.GamesAsBlack, p.MeanDiscs)
	}
	fmt.Fprintf(&ss, "Draws: %d\n", s.Draws)
	fmt.Fprintf(&ss, "Black won: %d (%.3f%%)\n", s.BlackWins,
		100.0*float64(s.BlackWins)/float64(s.Games))
	fmt.Fprintf(&ss, "%v margin: mean %.3f ± %.3f (99%%)  stdev %.3f  median %.1f  min %.0f  max %.0f\n",
		s.Players[0].Name, s.MarginMean, s.MarginCI99, s.MarginStdev, s.MarginMedian,
		s.MarginMin, s.MarginMax)
	fmt.Fprintf(&ss, "Mean plies: %.2f  mean passes: %.3f\n", s.MeanPlies, s.MeanPasses)
	if s.MarginMin < s.MarginMax {
		ss.WriteString("\nMargin distribution:\n")
		if err := histogram.Fprint(&ss, s.Histogram(10), histogram.Linear(40)); err != nil {
			fmt.Fprintf(&ss, "(no histogram: %v)\n", err)
		}
	}
	return ss.String()
}

// WriteYAML writes the summary as a YAML document.
func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
