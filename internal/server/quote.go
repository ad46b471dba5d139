package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
)

func (s *Server) CreateQuote(c *gin.Context) {
	var req invoicedomain.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.CreateQuote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	item, err := s.invoiceSvc.GetQuote(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) GetQuoteTotals(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.QuoteTotals(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ConvertQuote creates the draft invoice of an accepted quote.
func (s *Server) ConvertQuote(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.ConvertQuote(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
