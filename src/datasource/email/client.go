// client.go
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"mime"
	"net/smtp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	jwemail "github.com/jordan-wright/email"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/nicholasarchambault/employee-exit-surveys/src/config"
	"github.com/nicholasarchambault/employee-exit-surveys/src/storage"
)

const (
	MaxFetchMessages   = 100            // cap per fetch, keeps memory bounded
	FetchBufferSize    = 10             // fetch channel buffer
	RecentMailDuration = 24 * time.Hour // how far back counts as "new"
)

// MailService is the mailbox side of survey-export ingestion.
type MailService interface {
	Connect() error
	Disconnect()
	FetchUnreadEmails() ([]*Email, error)
}

// Email is one fetched message with its decoded headers and attachments.
type Email struct {
	UID         uint32
	Date        time.Time
	From        string
	Subject     string
	Attachments []*Attachment
}

// Attachment is a named binary attachment (a survey extract, typically).
type Attachment struct {
	Filename string
	Content  []byte
}

// Client is the IMAP implementation of MailService.
type Client struct {
	server    string
	username  string
	password  string
	client    *client.Client
	mu        sync.Mutex
	connected bool
}

func NewClient(server, username, password string) *Client {
	return &Client{
		server:   server,
		username: username,
		password: password,
	}
}

// Connect dials the server over TLS and logs in. An existing healthy
// connection is reused; a stale one is torn down first.
func (s *Client) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		if _, err := s.client.Capability(); err == nil {
			return nil
		}
		s.client.Logout()
		s.client = nil
	}

	c, err := client.DialTLS(s.server, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to mail server: %w", err)
	}
	if err := c.Login(s.username, s.password); err != nil {
		c.Logout()
		return fmt.Errorf("mail login failed: %w", err)
	}

	s.client = c
	s.connected = true
	return nil
}

func (s *Client) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.Logout()
		s.client = nil
	}
	s.connected = false
}

// FetchUnreadEmails returns the unread messages of the last day from the
// inbox, newest first capped at MaxFetchMessages.
func (s *Client) FetchUnreadEmails() ([]*Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, fmt.Errorf("not connected to mail server")
	}

	if _, err := s.client.Select("INBOX", false); err != nil {
		return nil, fmt.Errorf("failed to select inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Since = time.Now().Add(-RecentMailDuration)

	ids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("mail search failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxFetchMessages {
		ids = ids[:MaxFetchMessages]
	}
	return s.fetchMessages(ids)
}

func (s *Client) fetchMessages(ids []uint32) ([]*Email, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchFlags,
		imap.FetchInternalDate,
		imap.FetchUid,
		section.FetchItem(),
	}

	messages := make(chan *imap.Message, FetchBufferSize)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	var emails []*Email
	for msg := range messages {
		email, err := s.parseEmail(msg, section)
		if err != nil {
			log.Printf("failed to parse message: %v", err)
			continue
		}
		emails = append(emails, email)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("mail fetch failed: %w", err)
	}
	return emails, nil
}

func (s *Client) parseEmail(msg *imap.Message, section *imap.BodySectionName) (*Email, error) {
	r := msg.GetBody(section)
	if r == nil {
		return nil, fmt.Errorf("message has no body")
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}

	header := mr.Header
	date, _ := header.Date() // a bad date header does not block the rest

	email := &Email{
		UID:     msg.Uid,
		Date:    date,
		From:    decodeHeader(header.Get("From")),
		Subject: decodeHeader(header.Get("Subject")),
	}
	if err := s.parseEmailParts(mr, email); err != nil {
		return nil, err
	}
	return email, nil
}

func (s *Client) parseEmailParts(mr *mail.Reader, email *Email) error {
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip unparseable parts
		}

		if h, ok := p.Header.(*mail.AttachmentHeader); ok {
			if err := s.parseAttachment(h, p.Body, email); err != nil {
				log.Printf("failed to parse attachment: %v", err)
			}
		}
	}
	return nil
}

func (s *Client) parseAttachment(h *mail.AttachmentHeader, body io.Reader, email *Email) error {
	filename, err := h.Filename()
	if err != nil || filename == "" {
		return fmt.Errorf("attachment has no usable filename")
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("failed to read attachment body: %w", err)
	}

	email.Attachments = append(email.Attachments, &Attachment{
		Filename: decodeHeader(filename),
		Content:  buf.Bytes(),
	})
	return nil
}

// SendReport mails the finished report workbook to the configured
// recipient over SMTP with explicit TLS.
func SendReport(c *config.Config, reportPath string) error {
	from := c.SendEmail.Username

	e := jwemail.NewEmail()
	e.From = fmt.Sprintf("Exit Survey Analytics <%s>", from)
	e.To = []string{c.SendEmail.Recipient}
	e.Subject = c.SendEmail.Subject
	e.Text = []byte("Attached: dissatisfaction rate by service category.")

	if _, err := e.AttachFile(reportPath); err != nil {
		return fmt.Errorf("failed to attach report: %w", err)
	}

	smtpAddr := c.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465" // default SSL port
	}
	host := strings.Split(smtpAddr, ":")[0]

	if err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, c.SendEmail.Password, host),
		&tls.Config{ServerName: host},
	); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}
	return nil
}

// decodeHeader decodes encoded-word headers (=?charset?encoding?text?=).
func decodeHeader(header string) string {
	decoder := mime.WordDecoder{
		CharsetReader: charsetReader,
	}
	decoded, err := decoder.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// charsetReader converts legacy charsets to UTF-8. Survey exports and the
// systems mailing them still produce windows-1252/latin1, and the odd GBK
// header shows up from shared mail infrastructure.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "gbk", "gb2312":
		return transform.NewReader(input, simplifiedchinese.GBK.NewDecoder()), nil
	default:
		return input, nil
	}
}

// CheckAndProcessEmails connects, fetches unread mail, and returns the
// newest message whose subject matches the configured keyword. A nil
// message with a nil error means nothing new arrived.
func CheckAndProcessEmails(mailService MailService, keyword string, logger *storage.Logger) (*Email, error) {
	startTime := time.Now()
	logger.Info("checking mailbox for new survey exports...")

	if err := mailService.Connect(); err != nil {
		return nil, fmt.Errorf("mailbox connection failed: %w", err)
	}
	defer mailService.Disconnect()

	emails, err := mailService.FetchUnreadEmails()
	if err != nil {
		return nil, fmt.Errorf("mailbox fetch failed: %w", err)
	}
	if len(emails) == 0 {
		logger.Info("no new mail")
		return nil, nil
	}

	target := filterLatestTargetEmail(emails, keyword)
	if target == nil {
		logger.Info("no survey export mail found")
		return nil, nil
	}

	logger.Info(fmt.Sprintf("mailbox check finished in %v", time.Since(startTime)))
	return target, nil
}

// filterLatestTargetEmail picks the most recent message whose subject
// contains the keyword.
func filterLatestTargetEmail(emails []*Email, keyword string) *Email {
	var targets []*Email
	for _, email := range emails {
		if strings.Contains(email.Subject, keyword) {
			targets = append(targets, email)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Date.After(targets[j].Date)
	})
	return targets[0]
}
