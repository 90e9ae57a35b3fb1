// Package person holds the person processing job: it reads "name,age"
// lines, lowercases each name and publishes the records as a JSON array.
//
// NewJob assembles the job from explicit storage resources. RunFiles is the
// shortcut for two local filesystem paths.
package person
