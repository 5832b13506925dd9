// Package nlsql answers structured questions about floats by translating
// them into SQL with a chat model and running the result against Postgres.
//
// Every statement passes Guard before it reaches the database: only one
// SELECT or WITH statement is accepted, and the Executor runs it inside a
// read-only transaction with a statement timeout and a row limit.
package nlsql
