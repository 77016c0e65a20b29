package domain

import (
	"fmt"
	"net/url"
)

// MongoEndpoint holds everything needed to reach the datalake's
// document store, as derived from the stack descriptor or overridden
// by configuration.
type MongoEndpoint struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

func (e MongoEndpoint) URI() string {
	host := fmt.Sprintf("%s:%d", e.Host, e.Port)
	if e.Username == "" {
		return "mongodb://" + host
	}
	return fmt.Sprintf("mongodb://%s:%s@%s",
		url.QueryEscape(e.Username), url.QueryEscape(e.Password), host)
}

// MySQLEndpoint holds everything needed to reach the warehouse's
// relational store.
type MySQLEndpoint struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// DSN renders a go-sql-driver DSN. parseTime is on so DATETIME and
// DATE columns scan into time.Time.
func (e MySQLEndpoint) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		e.Username, e.Password, e.Host, e.Port, e.Database)
}
