package analytics

import (
	"sort"
	"strings"

	"github.com/spacesedan/insightflow/internal/models"
)

// BuildNetwork builds the undirected product co-mention graph over the
// summarized products; products below the summary gate have no node. A
// comment links two products when both product names appear as substrings
// of its text; edge weight is the number of such comments. Substring
// matching is precision-fragile for short or common product names, a known
// limitation kept on purpose.
func BuildNetwork(analyzed []models.AnalyzedComment, summaries map[string]*models.ProductSummary) models.Network {
	order := make([]string, 0, len(summaries))
	for id := range summaries {
		order = append(order, id)
	}
	sort.Strings(order)

	network := models.Network{}
	for _, id := range order {
		s := summaries[id]
		network.Nodes = append(network.Nodes, models.NetworkNode{
			ID:        id,
			Name:      s.ProductName,
			Sentiment: s.AvgSentiment,
			Count:     s.CommentCount,
		})
	}

	weights := make(map[[2]string]int)
	for _, ac := range analyzed {
		lower := strings.ToLower(ac.Text)

		var mentioned []string
		for _, id := range order {
			name := strings.ToLower(summaries[id].ProductName)
			if name == "" {
				continue
			}
			if strings.Contains(lower, name) {
				mentioned = append(mentioned, id)
			}
		}

		for i := 0; i < len(mentioned); i++ {
			for j := i + 1; j < len(mentioned); j++ {
				weights[[2]string{mentioned[i], mentioned[j]}]++
			}
		}
	}

	edges := make([][2]string, 0, len(weights))
	for pair := range weights {
		edges = append(edges, pair)
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a][0] != edges[b][0] {
			return edges[a][0] < edges[b][0]
		}
		return edges[a][1] < edges[b][1]
	})

	for _, pair := range edges {
		network.Links = append(network.Links, models.NetworkEdge{
			Source: pair[0],
			Target: pair[1],
			Weight: weights[pair],
		})
	}
	return network
}
