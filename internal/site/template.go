package site

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.Publisher}}</title>

  <!-- Google Scholar metadata -->
  <meta name="citation_title" content="{{.Title}}">
{{- range .Authors}}
  <meta name="citation_author" content="{{.}}">
{{- end}}
  <meta name="citation_publication_date" content="{{.ScholarDate}}">
  <meta name="citation_online_date" content="{{.ScholarDate}}">
  <meta name="citation_pdf_url" content="{{.PDFURL}}">
  <meta name="citation_abstract" content="{{.Paper.Abstract}}">
  <meta name="citation_publisher" content="{{.Publisher}}">

  <!-- Dublin Core metadata -->
  <meta name="DC.title" content="{{.Title}}">
  <meta name="DC.creator" content="{{.AuthorsText}}">
  <meta name="DC.date" content="{{.Paper.Date}}">
  <meta name="DC.identifier" content="{{.Publisher}}:{{.Paper.ID}}">
  <meta name="DC.type" content="Technical Report">
  <meta name="DC.format" content="application/pdf">
  <meta name="DC.publisher" content="{{.Publisher}}">

  <style>
    :root { --primary: #1a1a2e; --accent: #4a6fa5; --bg: #fafafa; --text: #2d2d2d; }
    * { box-sizing: border-box; margin: 0; padding: 0; }
    body { font-family: 'Palatino Linotype', Palatino, 'Book Antiqua', Georgia, serif; line-height: 1.6; color: var(--text); background: var(--bg); max-width: 800px; margin: 0 auto; padding: 2rem; }
    header { margin-bottom: 2rem; padding-bottom: 1rem; border-bottom: 2px solid var(--primary); }
    header a { color: var(--primary); text-decoration: none; font-size: 1.4rem; letter-spacing: 0.05em; }
    .back-link { display: inline-block; margin-bottom: 1.5rem; color: var(--accent); text-decoration: none; font-size: 0.9rem; }
    .back-link:hover { text-decoration: underline; }
    h1 { font-size: 1.5rem; color: var(--primary); line-height: 1.3; margin-bottom: 0.75rem; font-weight: normal; }
    .meta { color: #666; font-size: 0.95rem; margin-bottom: 1.5rem; }
    .meta .authors { font-style: italic; }
    .abstract { background: white; border-left: 3px solid var(--accent); padding: 1rem 1.5rem; margin: 1.5rem 0; }
    .abstract h2 { font-size: 0.85rem; text-transform: uppercase; letter-spacing: 0.1em; color: var(--accent); margin-bottom: 0.5rem; font-weight: normal; }
    .abstract p { text-align: justify; }
    .download-btn { display: inline-block; background: var(--accent); color: white; padding: 0.75rem 1.5rem; text-decoration: none; border-radius: 4px; margin-top: 1rem; }
    .download-btn:hover { background: #3a5f95; }
    .identifier { font-family: monospace; font-size: 0.85rem; color: #666; margin-top: 1.5rem; }
    footer { margin-top: 3rem; padding-top: 1rem; border-top: 1px solid #ddd; font-size: 0.85rem; color: #666; }
  </style>
</head>
<body>
  <header>
    <a href="{{.HomeURL}}">{{.Publisher}}</a>
  </header>

  <main>
    <a href="{{.HomeURL}}" class="back-link">&larr; All papers</a>

    <article>
      <h1>{{.Title}}</h1>

      <div class="meta">
        <span class="authors">{{.AuthorsText}}</span>
        <span> &middot; {{.DisplayDate}}</span>
      </div>

      <div class="abstract">
        <h2>Abstract</h2>
        <p>{{.Paper.Abstract}}</p>
      </div>

      <a href="{{.Paper.PDF}}" class="download-btn">Download PDF</a>

      <p class="identifier">{{.Publisher}}:{{.Paper.ID}} [{{.Paper.Category}}]</p>
    </article>
  </main>

  <footer>
    <p>Licensed under <a href="{{.LicenseURL}}">CC BY 4.0</a></p>
  </footer>
</body>
</html>
`
