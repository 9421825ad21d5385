package identity

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"estate_dumps/models"
)

// Clusters groups entries into the connected components of the Equals
// relation, so A~B and B~C put A, B and C together even when A and C do not
// match directly. Sentinel entries are left out. Each cluster holds indexes
// into entries in ascending order; clusters are ordered by their first index.
func (c *Comparer) Clusters(entries []models.Entry) [][]int {
	uf := newUnionFind(len(entries))

	buckets := make(map[uint64][]int)
	for i, e := range entries {
		if e.IsEmpty() {
			continue
		}
		for _, k := range c.candidateKeys(e) {
			buckets[k] = append(buckets[k], i)
		}
	}

	for _, idx := range buckets {
		for x := 0; x < len(idx); x++ {
			for y := x + 1; y < len(idx); y++ {
				if uf.find(idx[x]) == uf.find(idx[y]) {
					continue
				}
				if c.Equals(entries[idx[x]], entries[idx[y]]) {
					uf.union(idx[x], idx[y])
				}
			}
		}
	}

	groups := make(map[int][]int)
	for i, e := range entries {
		if e.IsEmpty() {
			continue
		}
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	clusters := make([][]int, 0, len(groups))
	for _, g := range groups {
		clusters = append(clusters, g)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] < clusters[j][0] })
	return clusters
}

// candidateKeys lists the buckets an entry is filed under. Entries that are
// Equal always share at least one key. In Loose mode a key pairs one shared
// contact field with one shared price field, so a busy agency name alone does
// not pull every listing into one bucket.
func (c *Comparer) candidateKeys(e models.Entry) []uint64 {
	if c.mode == Strict {
		return []uint64{c.Hash(e)}
	}

	contact := e.OfferDetails.SellerContact
	price := e.PropertyPrice
	kind := hashInt(int64(e.OfferDetails.OfferKind))

	var keys []uint64
	for _, ct := range []string{"t:" + contact.Telephone, "e:" + contact.Email, "n:" + contact.Name} {
		if len(ct) == 2 {
			continue
		}
		for _, p := range []struct {
			tag    int64
			amount float64
		}{{1, price.TotalGrossPrice}, {2, price.PricePerMeter}} {
			if p.amount == 0 {
				continue
			}
			keys = append(keys, kind^xxhash.Sum64String(ct)^hashFloat(p.amount)^hashInt(p.tag))
		}
	}
	return keys
}

// Duplicates counts entries that fall into an already represented cluster
func (c *Comparer) Duplicates(entries []models.Entry) int {
	n := 0
	for _, cl := range c.Clusters(entries) {
		n += len(cl) - 1
	}
	return n
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
