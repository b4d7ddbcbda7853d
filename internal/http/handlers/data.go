package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/http/response"
	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
)

// DataHandler serves the read-only reference tables for the dashboard panels.
type DataHandler struct {
	catalog *refdata.Catalog
}

func NewDataHandler(catalog *refdata.Catalog) *DataHandler {
	return &DataHandler{catalog: catalog}
}

func (h *DataHandler) Flights(c *gin.Context) {
	response.RespondOK(c, gin.H{"data": h.catalog.Flights()})
}

func (h *DataHandler) Inventory(c *gin.Context) {
	response.RespondOK(c, gin.H{"data": h.catalog.Inventory()})
}

func (h *DataHandler) Demand(c *gin.Context) {
	response.RespondOK(c, gin.H{"data": h.catalog.Demand()})
}

func (h *DataHandler) CryoDepots(c *gin.Context) {
	response.RespondOK(c, gin.H{"data": h.catalog.CryoDepots()})
}
