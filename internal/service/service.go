// Package service holds the shop's business rules.
//
// Services run on the request's database session handed down by the
// handlers and decide when its unit of work is committed. They call the
// repositories for SQL and never see echo.
package service
