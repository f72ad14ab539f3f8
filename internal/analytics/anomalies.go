package analytics

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/models"
	"github.com/spacesedan/insightflow/internal/textproc"
)

const anomalyFeatureCount = 4

// AnomalyDetector flags comments whose feature profile is statistically
// atypical. Below the minimum corpus size it is a no-op.
type AnomalyDetector struct {
	cfg config.Analyzer
}

func NewAnomalyDetector(cfg config.Analyzer) *AnomalyDetector {
	return &AnomalyDetector{cfg: cfg}
}

// Detect standardizes a four-feature vector per comment, runs a density
// clustering pass to find noise points, and independently flags comments by
// Mahalanobis distance from the corpus centroid. A singular covariance
// matrix degrades to cluster-only flagging.
func (ad *AnomalyDetector) Detect(analyzed []models.AnalyzedComment) []models.Anomaly {
	n := len(analyzed)
	if n < ad.cfg.AnomalyMinCorpus {
		return nil
	}

	features := make([][]float64, n)
	for i, ac := range analyzed {
		features[i] = []float64{
			ac.Sentiment.Score,
			ac.Sentiment.Subjectivity,
			float64(len(ac.Text)),
			textproc.UppercaseRatio(ac.Text),
		}
	}
	standardized := standardize(features)

	noise := dbscanNoise(standardized, ad.cfg.AnomalyClusterEps, ad.cfg.AnomalyClusterMinPoints)

	distances, haveDistances := mahalanobisDistances(standardized)

	flagged := make(map[int]string)
	for _, i := range noise {
		flagged[i] = "density outlier"
	}
	if haveDistances {
		for i, d := range distances {
			if d > ad.cfg.AnomalyDistanceLimit {
				if _, ok := flagged[i]; ok {
					flagged[i] = "density outlier, extreme statistical distance"
				} else {
					flagged[i] = fmt.Sprintf("statistical distance %.1f from corpus centroid", d)
				}
			}
		}
	}

	anomalies := make([]models.Anomaly, 0, len(flagged))
	for i, reason := range flagged {
		a := models.Anomaly{
			CommentID: analyzed[i].ID,
			Text:      analyzed[i].Text,
			Sentiment: analyzed[i].Sentiment.Score,
			Features:  standardized[i],
			Reason:    reason,
		}
		if haveDistances {
			a.Distance = distances[i]
		}
		anomalies = append(anomalies, a)
	}

	sort.SliceStable(anomalies, func(a, b int) bool {
		if anomalies[a].Distance != anomalies[b].Distance {
			return anomalies[a].Distance > anomalies[b].Distance
		}
		return anomalies[a].CommentID < anomalies[b].CommentID
	})
	return anomalies
}

// standardize z-scores each feature column across the corpus. Columns with
// zero variance (and any NaN) become zeros.
func standardize(features [][]float64) [][]float64 {
	n := len(features)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, anomalyFeatureCount)
	}

	col := make([]float64, n)
	for j := 0; j < anomalyFeatureCount; j++ {
		for i := 0; i < n; i++ {
			col[i] = features[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		for i := 0; i < n; i++ {
			if std == 0 || math.IsNaN(std) {
				continue
			}
			z := (col[i] - mean) / std
			if math.IsNaN(z) {
				z = 0
			}
			out[i][j] = z
		}
	}
	return out
}

// dbscanNoise returns the indices left in the noise set after a standard
// density-based clustering pass over euclidean distance.
func dbscanNoise(points [][]float64, eps float64, minPoints int) []int {
	n := len(points)

	const (
		unvisited = 0
		noise     = -1
	)
	labels := make([]int, n)
	cluster := 0

	neighbors := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if euclidean(points[i], points[j]) <= eps {
				out = append(out, j)
			}
		}
		return out
	}

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		seed := neighbors(i)
		if len(seed) < minPoints {
			labels[i] = noise
			continue
		}
		cluster++
		labels[i] = cluster

		for k := 0; k < len(seed); k++ {
			j := seed[k]
			if labels[j] == noise {
				labels[j] = cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			expanded := neighbors(j)
			if len(expanded) >= minPoints {
				seed = append(seed, expanded...)
			}
		}
	}

	var out []int
	for i, label := range labels {
		if label == noise {
			out = append(out, i)
		}
	}
	return out
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// mahalanobisDistances computes each point's distance from the corpus
// centroid under the inverse covariance metric. A singular covariance matrix
// returns ok=false so the caller can degrade gracefully.
func mahalanobisDistances(points [][]float64) ([]float64, bool) {
	n := len(points)

	data := mat.NewDense(n, anomalyFeatureCount, nil)
	for i, p := range points {
		data.SetRow(i, p)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var inv mat.Dense
	if err := inv.Inverse(&cov); err != nil {
		slog.Warn("[AnomalyDetector] Covariance matrix is singular, using cluster-only flagging")
		return nil, false
	}

	centroid := make([]float64, anomalyFeatureCount)
	for j := 0; j < anomalyFeatureCount; j++ {
		col := mat.Col(nil, j, data)
		centroid[j] = stat.Mean(col, nil)
	}

	distances := make([]float64, n)
	diff := mat.NewVecDense(anomalyFeatureCount, nil)
	var tmp mat.VecDense
	for i, p := range points {
		for j := 0; j < anomalyFeatureCount; j++ {
			diff.SetVec(j, p[j]-centroid[j])
		}
		tmp.MulVec(&inv, diff)
		d := mat.Dot(diff, &tmp)
		if d < 0 {
			d = 0
		}
		distances[i] = math.Sqrt(d)
	}
	return distances, true
}
