package digest

import "github.com/junggyoo/oh-my-stock/internal/model"

// tallyOrder fixes both the counting slots and the tie-break: on equal counts
// the earlier category wins.
var tallyOrder = [...]string{
	model.SentimentPositive,
	model.SentimentNegative,
	model.SentimentNeutral,
}

// AggregateSentiment is the majority vote over article sentiments. Unknown
// labels are not counted. An empty tally is neutral.
func AggregateSentiment(sentiments []string) string {
	var counts [len(tallyOrder)]int
	for _, s := range sentiments {
		for i, label := range tallyOrder {
			if s == label {
				counts[i]++
				break
			}
		}
	}

	best := -1
	bestCount := 0
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = i, c
		}
	}
	if best < 0 {
		return model.SentimentNeutral
	}
	return tallyOrder[best]
}
