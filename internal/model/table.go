package model

// TableStatusOccupied marks a table that is physically taken even when
// its available flag has not been flipped yet.
const TableStatusOccupied = "OCCUPIED"

// Table is a restaurant table as listed by GET /api/tables.
type Table struct {
	ID        uint64 `json:"id"`
	Number    string `json:"number"`
	Capacity  int    `json:"capacity"`
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

// IsFree reports whether the table can be chosen as an order
// destination. Both signals are honoured because the backend sets them
// independently: the available flag and the OCCUPIED status.
func (t Table) IsFree() bool {
	return t.Available && t.Status != TableStatusOccupied
}
