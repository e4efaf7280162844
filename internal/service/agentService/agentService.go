package agentService

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"workspace-service/internal/model/apperr"
	"workspace-service/internal/model/document"
	"workspace-service/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator — внешняя генерация: маршрутизация намерения, анализ, чат.
type Generator interface {
	RouteIntent(ctx context.Context, query, contextInfo string) (string, error)
	Analyze(ctx context.Context, filename, content, query, contextInfo string) (string, error)
	ChatReply(ctx context.Context, query, contextInfo string) (string, error)
}

// GeneratorFactory отдаёт генератор под конкретную модель;
// пустая строка — модель по умолчанию.
type GeneratorFactory func(model string) Generator

type Editor interface {
	Edit(ctx context.Context, workspaceID uuid.UUID, filename string, editorID uuid.UUID, instruction string) (*service.EditResult, error)
}

type FileLister interface {
	ListWorkspaceFiles(ctx context.Context, workspaceID uuid.UUID) ([]*document.File, error)
}

const (
	IntentSearch  = "SEARCH"
	IntentView    = "VIEW"
	IntentEdit    = "EDIT"
	IntentAnalyze = "ANALYZE"
	IntentChat    = "CHAT"
)

const memoryLimit = 10

var editKeywords = []string{
	"edit", "change", "modify", "rewrite", "update", "improve",
	"fix", "add", "remove", "delete", "replace",
}

var knownExtensions = []string{".md", ".markdown", ".txt", ".pdf", ".docx", ".doc"}

type ChatResponse struct {
	Intent     string `json:"intent"`
	Response   string `json:"response"`
	Filename   string `json:"filename,omitempty"`
	NewVersion int    `json:"new_version,omitempty"`
}

type Status struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	FileCount   int       `json:"file_count"`
	Files       []string  `json:"files"`
}

type exchange struct {
	query string
	reply string
}

type AgentService struct {
	roles   service.RoleResolver
	files   FileLister
	editor  Editor
	factory GeneratorFactory
	log     *zap.Logger

	mu     sync.Mutex
	memory map[string][]exchange
}

func New(roles service.RoleResolver, files FileLister, editor Editor, factory GeneratorFactory, log *zap.Logger) *AgentService {
	return &AgentService{
		roles:   roles,
		files:   files,
		editor:  editor,
		factory: factory,
		log:     log,
		memory:  make(map[string][]exchange),
	}
}

// Chat разбирает сообщение пользователя: определяет намерение и отвечает
// просмотром, анализом, правкой или обычной репликой.
func (s *AgentService) Chat(ctx context.Context, workspaceID, userID uuid.UUID, message, model string) (*ChatResponse, error) {
	role, err := s.roles.ResolveRole(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	if role == "" {
		return nil, fmt.Errorf("workspace not found or access denied: %w", apperr.ErrForbidden)
	}

	files, err := s.files.ListWorkspaceFiles(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace files: %w", err)
	}

	gen := s.factory(model)
	memKey := workspaceID.String() + ":" + userID.String()
	contextInfo := s.buildContext(memKey, files)

	// слова-маркеры правки — только ранний отказ для viewer;
	// намерение всё равно выбирает маршрутизатор
	if containsEditKeyword(message) && !role.CanEdit() {
		return nil, fmt.Errorf("role %q cannot edit: %w", role, apperr.ErrForbidden)
	}

	intent, err := gen.RouteIntent(ctx, message, contextInfo)
	if err != nil {
		return nil, err
	}
	intent = normalizeIntent(intent)

	if intent == IntentEdit && !role.CanEdit() {
		return nil, fmt.Errorf("role %q cannot edit: %w", role, apperr.ErrForbidden)
	}

	resp, err := s.dispatch(ctx, gen, workspaceID, userID, message, intent, files, contextInfo)
	if err != nil {
		return nil, err
	}

	s.remember(memKey, message, resp.Response)
	return resp, nil
}

func (s *AgentService) dispatch(ctx context.Context, gen Generator, workspaceID, userID uuid.UUID, message, intent string, files []*document.File, contextInfo string) (*ChatResponse, error) {
	target := findFile(files, extractFilename(message))

	switch intent {
	case IntentView:
		if target == nil {
			return nil, fmt.Errorf("no matching file to view: %w", apperr.ErrNotFound)
		}
		return &ChatResponse{Intent: intent, Response: preview(target.Content), Filename: target.Filename}, nil

	case IntentEdit:
		if target == nil {
			return nil, fmt.Errorf("no matching file to edit: %w", apperr.ErrNotFound)
		}
		result, err := s.editor.Edit(ctx, workspaceID, target.Filename, userID, message)
		if err != nil {
			return nil, err
		}
		return &ChatResponse{
			Intent:     intent,
			Response:   fmt.Sprintf("Updated %s successfully", result.Filename),
			Filename:   result.Filename,
			NewVersion: result.NewVersion,
		}, nil

	case IntentSearch, IntentAnalyze:
		if target == nil && len(files) == 1 {
			// единственный файл в workspace — очевидная цель вопроса
			target = files[0]
		}
		if target == nil {
			reply, err := gen.ChatReply(ctx, message, contextInfo)
			if err != nil {
				return nil, err
			}
			return &ChatResponse{Intent: IntentChat, Response: reply}, nil
		}
		reply, err := gen.Analyze(ctx, target.Filename, target.Content, message, contextInfo)
		if err != nil {
			return nil, err
		}
		return &ChatResponse{Intent: intent, Response: reply, Filename: target.Filename}, nil

	default:
		reply, err := gen.ChatReply(ctx, message, contextInfo)
		if err != nil {
			return nil, err
		}
		return &ChatResponse{Intent: IntentChat, Response: reply}, nil
	}
}

func (s *AgentService) WorkspaceStatus(ctx context.Context, workspaceID, userID uuid.UUID) (*Status, error) {
	role, err := s.roles.ResolveRole(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	if role == "" {
		return nil, fmt.Errorf("workspace not found or access denied: %w", apperr.ErrForbidden)
	}

	files, err := s.files.ListWorkspaceFiles(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return &Status{WorkspaceID: workspaceID, FileCount: len(files), Files: names}, nil
}

// buildContext: список файлов плюс хвост диалога для связности ответов.
func (s *AgentService) buildContext(memKey string, files []*document.File) string {
	var b strings.Builder
	if len(files) > 0 {
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Filename)
		}
		b.WriteString("Available files: " + strings.Join(names, ", "))
	} else {
		b.WriteString("The workspace has no files yet.")
	}

	s.mu.Lock()
	history := s.memory[memKey]
	if len(history) > 3 {
		history = history[len(history)-3:]
	}
	for _, ex := range history {
		b.WriteString(fmt.Sprintf("\nUser: %s\nAssistant: %s", ex.query, ex.reply))
	}
	s.mu.Unlock()

	return b.String()
}

func (s *AgentService) remember(memKey, query, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.memory[memKey], exchange{query: query, reply: reply})
	if len(history) > memoryLimit {
		history = history[len(history)-memoryLimit:]
	}
	s.memory[memKey] = history
}

func normalizeIntent(raw string) string {
	switch raw {
	case IntentSearch, IntentView, IntentEdit, IntentAnalyze, IntentChat:
		return raw
	}
	return IntentChat
}

func containsEditKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range editKeywords {
		for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
			return !('a' <= r && r <= 'z')
		}) {
			if word == kw {
				return true
			}
		}
	}
	return false
}

const previewLines = 20

// preview обрезает содержимое для просмотра в чате.
func preview(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= previewLines {
		return content
	}
	return strings.Join(lines[:previewLines], "\n") + "\n..."
}

// extractFilename ищет в сообщении токен с известным расширением
// или имя в кавычках.
func extractFilename(message string) string {
	for _, quote := range []string{`"`, "'"} {
		if start := strings.Index(message, quote); start >= 0 {
			rest := message[start+1:]
			if end := strings.Index(rest, quote); end > 0 {
				return rest[:end]
			}
		}
	}
	for _, token := range strings.Fields(message) {
		token = strings.Trim(token, `.,!?:;()`)
		ext := strings.ToLower(filepath.Ext(token))
		for _, known := range knownExtensions {
			if ext == known {
				return token
			}
		}
	}
	return ""
}

// findFile: точное совпадение, затем markdown-имя исходника,
// затем подстрока без учёта регистра.
func findFile(files []*document.File, name string) *document.File {
	if name == "" {
		return nil
	}
	for _, f := range files {
		if f.Filename == name {
			return f
		}
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name)) + ".md"
	for _, f := range files {
		if f.Filename == stem {
			return f
		}
	}
	lower := strings.ToLower(name)
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Filename), lower) {
			return f
		}
	}
	return nil
}
