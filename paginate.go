package main

import (
	"net/url"
	"strconv"

	"userapi/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// orderColumns is the whitelist for the order_by query parameter; anything
// else falls back to creation time.
var orderColumns = map[string]bool{
	"created_at":  true,
	"modified_at": true,
	"id":          true,
	"username":    true,
	"email":       true,
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func linkBuilder(c *gin.Context) models.LinkBuilder {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return models.LinkBuilder{Scheme: scheme, Host: c.Request.Host}
}

// paginate turns an ordered, filterable query into a page response:
// {<collection>: [...], pages: {...}}. Items are self links by default and
// full records when expanded is set. per_page is capped at the configured
// ceiling no matter what the client asks for.
func paginate(c *gin.Context, query *gorm.DB, collection string,
	fetch func(q *gorm.DB) ([]models.Record, error)) {

	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", maxPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	expanded := c.Query("expanded") != "" && c.Query("expanded") != "0"
	order := c.DefaultQuery("order_by", "created_at")
	if !orderColumns[order] {
		order = "created_at"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		abortWith(c, serverError())
		return
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages == 0 {
		pages = 1
	}

	items, err := fetch(query.Order(order).Limit(perPage).Offset((page - 1) * perPage))
	if err != nil {
		abortWith(c, serverError())
		return
	}

	pageURL := func(p int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(p))
		q.Set("per_page", strconv.Itoa(perPage))
		if expanded {
			q.Set("expanded", "1")
		}
		return linkBuilder(c).URL(c.Request.URL.Path) + "?" + q.Encode()
	}

	meta := gin.H{
		"page":     page,
		"per_page": perPage,
		"total":    total,
		"pages":    pages,
	}
	if page > 1 {
		meta["prev_url"] = pageURL(page - 1)
	} else {
		meta["prev_url"] = nil
	}
	if page < pages {
		meta["next_url"] = pageURL(page + 1)
	} else {
		meta["next_url"] = nil
	}
	meta["first_url"] = pageURL(1)
	meta["last_url"] = pageURL(pages)

	links := linkBuilder(c)
	results := make([]any, 0, len(items))
	for _, item := range items {
		if expanded {
			results = append(results, models.ExportData(item, links))
		} else {
			results = append(results, links.Self(item))
		}
	}
	c.JSON(200, gin.H{collection: results, "pages": meta})
}
