// Package domain defines the core entities of the task queue: the WorkItem
// accepted from submitters and the ProcessedWorkItem recorded once the
// worker finishes it. It has no dependencies on other internal packages.
package domain
