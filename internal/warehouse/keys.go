package warehouse

// Index is an insertion-ordered set that assigns gapless ids starting at 1.
// Inserting a key that is already present is not an error; the existing id
// is returned.
type Index[K comparable] struct {
	ids  map[K]int64
	keys []K
}

// NewIndex returns an empty index.
func NewIndex[K comparable]() *Index[K] {
	return &Index[K]{ids: make(map[K]int64)}
}

// Insert adds k if absent and returns its id and whether it was new.
func (x *Index[K]) Insert(k K) (int64, bool) {
	if id, ok := x.ids[k]; ok {
		return id, false
	}
	x.keys = append(x.keys, k)
	id := int64(len(x.keys))
	x.ids[k] = id
	return id, true
}

// Lookup returns the id of k.
func (x *Index[K]) Lookup(k K) (int64, bool) {
	id, ok := x.ids[k]
	return id, ok
}

// Keys returns the keys in id order; Keys()[i] has id i+1.
func (x *Index[K]) Keys() []K {
	return x.keys
}

// Len returns the number of distinct keys.
func (x *Index[K]) Len() int {
	return len(x.keys)
}

// RowKeys are the dimension keys resolved for one source row at load time.
type RowKeys struct {
	Employee   int64
	Department int64
	Salary     int64
}

type monthYear struct {
	Month int
	Year  int
}

type departmentKey struct {
	Abbreviation string
	Name         string
	Division     string
}

type employeeKey struct {
	Gender string
	First  string
	Last   string
}

// salaryKey compares compensation in whole cents so that float noise below
// a cent cannot split one tuple into two rows.
type salaryKey struct {
	Base      int64
	Overtime  int64
	Longevity int64
	Grade     string
	HasGrade  bool
}
