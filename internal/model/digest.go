package model

import (
	"fmt"
	"time"
)

// Digest is the per-user document handed to the mailer. It is never stored;
// only the EmailLog row outlives the run.
type Digest struct {
	UserName string
	Stocks   []StockDigest
	Date     string
}

type StockDigest struct {
	Symbol           string
	Name             string
	News             []DigestNewsItem
	OverallSentiment string
	Briefing         string
}

type DigestNewsItem struct {
	Title          string
	Summary        string
	URL            string
	Source         string
	Sentiment      string
	Impact         string
	KeyPoints      []string
	InvestorAction string
}

func (d Digest) Symbols() []string {
	symbols := make([]string, 0, len(d.Stocks))
	for _, s := range d.Stocks {
		symbols = append(symbols, s.Symbol)
	}
	return symbols
}

var koreanWeekdays = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

var seoul = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// DateLabel formats t as a Korean long date in Seoul time, for example
// "2025년 1월 6일 월요일".
func DateLabel(t time.Time) string {
	t = t.In(seoul)
	return fmt.Sprintf("%d년 %d월 %d일 %s", t.Year(), int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}
