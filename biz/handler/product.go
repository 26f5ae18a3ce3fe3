package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/common"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
)

// ProductHandler serves the read-only catalog of migrated products.
type ProductHandler struct {
	catalog docstore.Catalog
}

func NewProductHandler(catalog docstore.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ProductList is the payload of GET /api/v1/products.
type ProductList struct {
	Items  []model.Product `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// List returns products newest acquisition first.
func (h *ProductHandler) List(ctx context.Context, c *app.RequestContext) {
	page, err := common.ParsePage(c.Query("limit"), c.Query("offset"))
	if err != nil {
		WriteBadRequest(c, err)
		return
	}
	items, err := h.catalog.List(ctx, page.Limit, page.Offset)
	if err != nil {
		hlog.CtxErrorf(ctx, "list products: %v", err)
		WriteInternalError(c, err)
		return
	}
	if items == nil {
		items = []model.Product{}
	}
	RespondData(c, &ProductList{Items: items, Limit: page.Limit, Offset: page.Offset})
}

// Get returns one product without its thumbnail bytes.
func (h *ProductHandler) Get(ctx context.Context, c *app.RequestContext) {
	product, ok := h.lookup(ctx, c)
	if !ok {
		return
	}
	RespondData(c, product)
}

// Thumbnail streams the embedded thumbnail JPEG.
func (h *ProductHandler) Thumbnail(ctx context.Context, c *app.RequestContext) {
	product, ok := h.lookup(ctx, c)
	if !ok {
		return
	}
	if len(product.ThumbView) == 0 {
		WriteNotFound(c, fmt.Errorf("product %s has no thumbnail", product.ProductID))
		return
	}
	c.Data(consts.StatusOK, "image/jpeg", product.ThumbView)
}

func (h *ProductHandler) lookup(ctx context.Context, c *app.RequestContext) (*model.Product, bool) {
	productID := c.Param("productID")
	if productID == "" {
		WriteBadRequest(c, errors.New("productID is required"))
		return nil, false
	}
	product, err := h.catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, docstore.ErrProductNotFound) {
			WriteNotFound(c, fmt.Errorf("%w: %s", err, productID))
			return nil, false
		}
		hlog.CtxErrorf(ctx, "get product %s: %v", productID, err)
		WriteInternalError(c, err)
		return nil, false
	}
	return product, true
}
