package ml

import (
	"fmt"
	"sort"

	benchmath "github.com/drakos74/face-bench/internal/math"
	"gonum.org/v1/gonum/mat"
)

// NearestNeighbor classifies samples by the labels of their closest training samples
// in euclidean distance.
type NearestNeighbor struct {
	K int
}

// Neighbor is the outcome of a single query.
type Neighbor struct {
	// Label is the predicted label.
	Label int
	// Index is the training sample closest to the query among those carrying Label.
	Index int
	// Distance to the training sample at Index.
	Distance float64
}

// PredictAll labels every row of xTest.
// With K = 1 the label of the closest training sample is returned and ties go to the
// lowest training index. With K > 1 the K closest samples vote, and vote ties go to the
// label of the closest voter.
func (nn NearestNeighbor) PredictAll(xTrain *mat.Dense, yTrain []int, xTest *mat.Dense) ([]Neighbor, error) {
	if err := checkShape(xTrain, yTrain); err != nil {
		return nil, err
	}
	if err := checkShape(xTest, nil); err != nil {
		return nil, err
	}
	n, d := xTrain.Dims()
	m, dTest := xTest.Dims()
	if d != dTest {
		return nil, fmt.Errorf("train has %d features, test has %d: %w", d, dTest, DataErr)
	}
	k := nn.K
	if k == 0 {
		k = 1
	}
	if k < 0 || k > n {
		return nil, fmt.Errorf("cannot vote with %d neighbors out of %d samples: %w", k, n, ConfigErr)
	}

	train := benchmath.Rows(xTrain)
	neighbors := make([]Neighbor, m)
	distances := make([]float64, n)
	for i := 0; i < m; i++ {
		query := xTest.RawRowView(i)
		for j, t := range train {
			distances[j] = benchmath.Distance(t, query)
		}
		if k == 1 {
			neighbors[i] = nearest(distances, yTrain)
		} else {
			neighbors[i] = vote(distances, yTrain, k)
		}
	}
	return neighbors, nil
}

// Labels extracts the predicted labels.
func Labels(neighbors []Neighbor) []int {
	labels := make([]int, len(neighbors))
	for i, n := range neighbors {
		labels[i] = n.Label
	}
	return labels
}

func nearest(distances []float64, labels []int) Neighbor {
	best := 0
	for j := 1; j < len(distances); j++ {
		if distances[j] < distances[best] {
			best = j
		}
	}
	return Neighbor{
		Label:    labels[best],
		Index:    best,
		Distance: distances[best],
	}
}

func vote(distances []float64, labels []int, k int) Neighbor {
	rank := make([]int, len(distances))
	for i := range rank {
		rank[i] = i
	}
	sort.SliceStable(rank, func(a, b int) bool {
		return distances[rank[a]] < distances[rank[b]]
	})

	votes := make(map[int]int)
	first := make(map[int]int)
	order := make([]int, 0, k)
	for _, j := range rank[:k] {
		l := labels[j]
		if _, ok := votes[l]; !ok {
			first[l] = j
			order = append(order, l)
		}
		votes[l]++
	}
	winner := order[0]
	for _, l := range order[1:] {
		if votes[l] > votes[winner] {
			winner = l
		}
	}
	j := first[winner]
	return Neighbor{
		Label:    winner,
		Index:    j,
		Distance: distances[j],
	}
}
