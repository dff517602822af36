package web

import "tragedy-commons/internal/db"

type AdminRequestsData struct {
	Requests   []db.GameRequest
	Pagination PaginationData
	Flash      string
}

type AdminRequestData struct {
	Request db.GameRequest
	Pair    *db.GameRequest
	Players int
	Events  []db.Event
	Flash   string
}
