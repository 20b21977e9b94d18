// Package scraper implements the backward ID-scan discovery engine: a
// fetch-classify-extract pipeline over the ombudsman site's numeric document
// ID space, coordinated by a windowed descending scanner with bounded
// concurrency.
package scraper
