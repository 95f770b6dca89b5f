package generator

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"
)

const defaultPersona = `You are Bhagya Sharma's personal LinkedIn Agent.
Bhagya Sharma's tone is witty, creative, warm, thoughtful.
Your tasks:
- Write LinkedIn posts based on Bhagya's ideas.
- Write thoughtful, engaging replies to others' posts.
- Write warm and professional DM replies.
Adapt to context. Output only the text that should be posted.
Style examples:
- Embrace curiosity in every scroll.
- Sometimes a smile is the best comment.
- Let's build connections that matter.
- Your next breakthrough insight might be hiding in your LinkedIn feed.
Keep posts authentic, engaging, and true to Bhagya's voice.`

// Persona holds the system prompt the generator writes with. When backed by
// a file it can be hot-reloaded, so prompt tuning does not need a restart.
type Persona struct {
	mu      sync.RWMutex
	prompt  string
	file    string
	watcher *fsnotify.Watcher
}

func LoadPersona(file string) *Persona {
	p := &Persona{prompt: defaultPersona, file: file}
	if file == "" {
		return p
	}
	if err := p.reload(); err != nil {
		log.Errorf("loading persona file: %+v", err)
	}
	return p
}

func (p *Persona) Prompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prompt
}

func (p *Persona) reload() error {
	data, err := os.ReadFile(p.file)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.prompt = string(data)
	p.mu.Unlock()
	return nil
}

func (p *Persona) Watch() {
	if p.file == "" {
		return
	}

	var err error
	p.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		log.Errorf("watcher: %+v", err)
		return
	}

	go func() {
		for {
			select {
			case event, ok := <-p.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) {
					log.Infof("reloading persona: %s", event.Name)
					if err := p.reload(); err != nil {
						log.Errorf("reloading persona: %+v", err)
					}
				}
			case err, ok := <-p.watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	if err := p.watcher.Add(p.file); err != nil {
		log.Errorf("watcher: %+v", err)
	}
}

func (p *Persona) Close() {
	if p.watcher != nil {
		p.watcher.Close()
	}
}
