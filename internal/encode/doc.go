// Package encode defines the contract shared by the three format encoder
// backends (gifenc, zipenc, webmenc). Each backend consumes the complete
// ordered frame sequence and reports its own local 0-100 progress; mapping
// that onto the job-level progress stages is the orchestrator's business.
package encode
