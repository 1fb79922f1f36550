package pkg

const (
	HeaderTraceId string = "X-Trace-Id"
)

const (
	TraceId       string = "trace_id"
	AccountNumber string = "account_number"
)
