// Package content turns a markdown note into publishable artifacts.
//
// A Generator finds the single note in a content folder, runs the thread
// sequence over it and writes the results to a dated file. When the sequence
// produced an image URL the image is downloaded and stored as PNG. A Starter
// writes a thread starter and a Midjourney prompt for a subject and persona.
package content
