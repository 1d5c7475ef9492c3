package application

import (
	"encoding/base64"
	"fmt"
)

const (
	defaultPageSize = 100
	maxPageSize     = 10000
)

func pageSize(page *Page, maxSize int32) int {
	if page == nil || page.Size <= 0 {
		return defaultPageSize
	}
	return int(min(page.Size, maxSize))
}

func encodeCursor(key string) *string {
	cursor := base64.RawURLEncoding.EncodeToString([]byte(key))
	return &cursor
}

func decodeCursor(cursor string) (string, error) {
	buf, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("cursor must be base64 encoded")
	}
	return string(buf), nil
}

// paginateByKey applies the cursor to the list of items, which must be sorted in
// ascending key order, and returns the requested page.
func paginateByKey[T any](
	items []T, key func(T) string, page *Page, maxSize int32,
) ([]T, PageResp, error) {
	size := pageSize(page, maxSize)
	backward := page != nil && page.Backward

	var from string
	hasCursor := page != nil && page.Cursor != nil
	if hasCursor {
		var err error
		if from, err = decodeCursor(*page.Cursor); err != nil {
			return nil, PageResp{}, err
		}
	}

	selected := make([]T, 0, size)
	if backward {
		for i := len(items) - 1; i >= 0; i-- {
			if hasCursor && key(items[i]) >= from {
				continue
			}
			selected = append(selected, items[i])
		}
	} else {
		for _, item := range items {
			if hasCursor && key(item) <= from {
				continue
			}
			selected = append(selected, item)
		}
	}

	return trimPage(selected, key, size)
}

// trimPage keeps the first size items, any other item only signals that a next
// page exists.
func trimPage[T any](items []T, key func(T) string, size int) ([]T, PageResp, error) {
	resp := PageResp{}
	if len(items) > size {
		items = items[:size]
		resp.HasNextPage = true
	}
	if len(items) > 0 {
		resp.Cursor = encodeCursor(key(items[len(items)-1]))
	}
	return items, resp, nil
}
