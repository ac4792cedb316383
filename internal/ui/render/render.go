// Package render turns a SearchResult into a display tree. Building the tree
// is pure; Text writes it to a terminal.
package render

import (
	"strings"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// MaxChips caps the related-word chips shown per group.
const MaxChips = 10

// Kind identifies a node's role in the card.
type Kind string

const (
	KindCard         Kind = "card"
	KindTitle        Kind = "title"
	KindPhonetics    Kind = "phonetics"
	KindTranslation  Kind = "translation"
	KindSection      Kind = "section"
	KindHeading      Kind = "heading"
	KindDefinition   Kind = "definition"
	KindPartOfSpeech Kind = "part_of_speech"
	KindText         Kind = "text"
	KindExample      Kind = "example"
	KindRelated      Kind = "related"
	KindGroup        Kind = "group"
	KindChip         Kind = "chip"
	KindPlay         Kind = "play"
	KindError        Kind = "error"
)

// ActionKind says what activating a node does.
type ActionKind int

const (
	ActionPlay ActionKind = iota + 1
	ActionSearch
)

// Action is attached to play controls and chips.
type Action struct {
	Kind  ActionKind
	Audio string // base64 audio for ActionPlay
	Word  string // word to look up for ActionSearch
}

// Node is one element of the display tree.
type Node struct {
	Kind     Kind
	Text     string
	Action   *Action
	Children []*Node
}

// Namer resolves a language code to a display name.
type Namer interface {
	DisplayName(code string) string
}

// Card builds the display tree for r.
func Card(r *domain.SearchResult, names Namer) *Node {
	card := &Node{Kind: KindCard}

	title := &Node{Kind: KindTitle, Text: r.Word}
	if r.Pronunciation != "" {
		title.Children = append(title.Children, playNode(r.Pronunciation))
	}
	card.Children = append(card.Children, title)

	if ph := phonetics(r.Phonetics); ph != "" {
		card.Children = append(card.Children, &Node{Kind: KindPhonetics, Text: ph})
	}

	if r.Translation != "" {
		tr := &Node{Kind: KindTranslation, Text: r.Translation}
		if r.TranslationPronunciation != "" {
			tr.Children = append(tr.Children, playNode(r.TranslationPronunciation))
		}
		card.Children = append(card.Children, tr)
	}

	if len(r.Definitions) > 0 {
		card.Children = append(card.Children, definitionSection("Definitions", r.Definitions))
	}

	if len(r.TranslatedDefinitions) > 0 {
		heading := "Definitions in " + r.TargetLanguage
		if names != nil {
			heading = "Definitions in " + names.DisplayName(r.TargetLanguage)
		}
		card.Children = append(card.Children, definitionSection(heading, r.TranslatedDefinitions))
	}

	if len(r.Synonyms) > 0 || len(r.Antonyms) > 0 {
		related := &Node{Kind: KindRelated, Children: []*Node{{Kind: KindHeading, Text: "Related Words"}}}
		if len(r.Synonyms) > 0 {
			related.Children = append(related.Children, chipGroup("Synonyms", r.Synonyms))
		}
		if len(r.Antonyms) > 0 {
			related.Children = append(related.Children, chipGroup("Antonyms", r.Antonyms))
		}
		card.Children = append(card.Children, related)
	}

	return card
}

// ErrorNode is shown in place of a result.
func ErrorNode(msg string) *Node {
	return &Node{Kind: KindError, Text: msg}
}

func playNode(audio string) *Node {
	return &Node{Kind: KindPlay, Action: &Action{Kind: ActionPlay, Audio: audio}}
}

func phonetics(ps []domain.Phonetic) string {
	texts := make([]string, 0, len(ps))
	for _, p := range ps {
		if t := strings.TrimSpace(p.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, ", ")
}

func definitionSection(heading string, defs []domain.Definition) *Node {
	section := &Node{Kind: KindSection, Children: []*Node{{Kind: KindHeading, Text: heading}}}
	for _, d := range defs {
		def := &Node{Kind: KindDefinition, Children: []*Node{
			{Kind: KindPartOfSpeech, Text: d.PartOfSpeech},
			{Kind: KindText, Text: d.Definition},
		}}
		if d.Example != "" {
			def.Children = append(def.Children, &Node{Kind: KindExample, Text: d.Example})
		}
		section.Children = append(section.Children, def)
	}
	return section
}

func chipGroup(label string, words []string) *Node {
	group := &Node{Kind: KindGroup, Text: label}
	for _, w := range words[:min(len(words), MaxChips)] {
		group.Children = append(group.Children, &Node{
			Kind:   KindChip,
			Text:   w,
			Action: &Action{Kind: ActionSearch, Word: w},
		})
	}
	return group
}

// Find returns the nodes of kind k in document order.
func Find(n *Node, k Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == k {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Chips returns the chip nodes in document order, as numbered by Text.
func Chips(n *Node) []*Node { return Find(n, KindChip) }

// Plays returns the play controls in document order, as numbered by Text.
func Plays(n *Node) []*Node { return Find(n, KindPlay) }
