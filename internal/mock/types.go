package mock

import "time"

// Config represents the mock posts backend configuration
type Config struct {
	Port    int        `json:"port" yaml:"port"`             // Server port (default: 5000)
	Host    string     `json:"host" yaml:"host"`             // Server host (default: localhost)
	Logging bool       `json:"logging" yaml:"logging"`       // Keep a request log, printed on shutdown
	Delay   int        `json:"delay,omitempty" yaml:"delay"` // Response delay in milliseconds
	Posts   []SeedPost `json:"posts" yaml:"posts"`           // Loaded into an empty store
}

// SeedPost is a post definition in a seed file
type SeedPost struct {
	Title   string  `json:"title" yaml:"title"`
	Author  string  `json:"author" yaml:"author"`
	Avatar  *string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Date    string  `json:"date,omitempty" yaml:"date,omitempty"`
	Content string  `json:"content" yaml:"content"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}
